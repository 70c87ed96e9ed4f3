package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `gptme-eval - Configuration tools and evaluation harness for the gptme assistant

USAGE
  gptme-eval <command> [flags]

COMMANDS
  config show                            Print the resolved settings file
  config set <key> <value>               Set a key, e.g. env.API_MODEL
  config comment-out <key> <note>        Disable a key, keeping it as a comment
  config provider --provider <p> ...     Save API credentials for a provider
  prompt [dir]                           Print the project files prompt for a workspace
  run --model <m> (--prompt <p> | --suite <file>)
                                         Run the agent and collect produced files
  report <dir>                           Print the results.json written by run --out

GLOBAL FLAGS
  --config <path>                        Settings file (default: $XDG_CONFIG_HOME/gptme/config.toml)
  --logs-dir <path>                      Conversation logs (default: $XDG_DATA_HOME/gptme/logs)
  -v, --verbose                          Debug logging, passes --verbose to the chat CLI

RUN FLAGS
  -m, --model <model>[,<model>]          Model(s) to evaluate (required)
  -p, --prompt <text>                    Single prompt (mutually exclusive with --suite)
  --files <dir>                          Seed the workspace from a directory (with --prompt)
  --suite <file>                         YAML suite of cases (mutually exclusive with --prompt)
  -o, --out <dir>                        Write produced files and results.json
  --parallel <int>                       Maximum concurrent runs (default: 0, unbounded)
  --gptme-bin <path>                     Chat CLI to invoke (default: gptme)

EXIT CODES
  0   Success              Command finished
  1   Error                Invalid arguments or unexpected failure
  2   ConfigError          Settings file unreadable, invalid or missing a key
  3   ProjectFileMissing   gptme.toml names a file that does not exist
  4   WorkspaceConflict    Workspace for the run already exists
  5   EvalFailed           At least one evaluation run failed
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Point the assistant at a local OpenAI-compatible server
  gptme-eval config provider --provider local --api-key none

  # Run one prompt against two models
  gptme-eval run -m openai/gpt-4o,anthropic/claude-3-5-sonnet -p "write hello.py" -o results

  # Run a suite with at most two concurrent runs
  gptme-eval run -m openai/gpt-4o --suite evals.yaml --parallel 2 -o results
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
