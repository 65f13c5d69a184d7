// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/sieve/internal/meta"
)

const bashCompletionScript = `# bash completion for sieve
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_sieve()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "apply browse diff validate completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local output="--attrs -a --color -c --output -o --padding --sort -s --titles -t"
    local specs="--spec -S --specset -n --decl -d --strict"
    local source="--set --parent -p --refresh"

    case "$cmd" in
        apply|browse)
            local opts="$output $specs $source"
            ;;
        diff)
            local opts="--color -c $specs $source"
            ;;
        validate)
            local opts="$output $specs"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$output"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --spec|-S)
            COMPREPLY=( $(compgen -f -X '!*.@(yaml|yml|json|hcl)' -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise complete the source or declaration file positional.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _sieve sieve
`

const zshCompletionScript = `#compdef sieve

_sieve() {
  local -a cmds
  cmds=(
    'apply:filter a collection'
    'browse:interactive filter panel'
    'diff:show the records the filters remove'
    'validate:check filter declarations'
    'completion:generate shell completion script'
  )

  local -a output specs source
  output=(
  '(-a --attrs)'{-a,--attrs}'[columns to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[spaces between columns]:padding'
  '(-s --sort)'{-s,--sort}'[sort columns]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )
  specs=(
  '(-S --spec)'{-S,--spec}'[declaration file]:file:_files -g "*.(yaml|yml|json|hcl)"'
  '(-n --specset)'{-n,--specset}'[named declaration list]:name'
  '*'{-d,--decl}'[inline declaration]:decl'
  '--strict[fail on invalid declarations]'
  )
  source=(
  '*--set[filter value field=value]:value'
  '(-p --parent)'{-p,--parent}'[path to the records]:path'
  '--refresh[bypass the remote cache]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'sieve commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    apply|browse)
      _arguments -C $output $specs $source '::source:_files'
      ;;
    diff)
      _arguments -C \
        '(-c --color)'{-c,--color}'[enable colored delta]' \
        $specs $source '::source:_files'
      ;;
    validate)
      _arguments -C $output $specs '*:specfile:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $output '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _sieve sieve
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := stdout(GetMeta(cmd))

	shell := cmd.Args().First()
	if shell == "" {
		// Detect from SHELL.
		switch sh := os.Getenv("SHELL"); {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		fmt.Fprintln(os.Stderr, "usage: sieve completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "sieve completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
