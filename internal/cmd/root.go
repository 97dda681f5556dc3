package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schmitthub/pr-bump/internal/config"
)

type runtimeOptions struct {
	ConfigPath    string
	Token         string
	Repository    string
	PRNumber      int
	Files         string
	WorkDir       string
	APIURL        string
	CommitMessage string
	LogLevel      string
	DryRun        bool
	Yes           bool
	LabelMajor    string
	LabelMinor    string
	LabelPatch    string
}

var rootOpts runtimeOptions

func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	// Flags bind into package state; start from a clean slate so
	// repeated constructions (tests) do not leak values across runs.
	rootOpts = runtimeOptions{}

	showVersion := false

	cmd := &cobra.Command{
		Use:           "pr-bump",
		Short:         "Bump manifest versions on labeled pull requests",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprint(cmd.OutOrStdout(), formatVersion(buildVersion, buildDate))
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&rootOpts.ConfigPath, "config", "f", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&rootOpts.LogLevel, "log-level", "", "Log level: debug, info, warn or none")
	cmd.PersistentFlags().BoolVarP(&rootOpts.Yes, "yes", "y", false, "Skip commit confirmation prompts")
	cmd.Flags().BoolVar(&showVersion, "version", false, "Print CLI version")

	cmd.AddCommand(newVersionCmd(buildVersion, buildDate))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newRunCmd())

	return cmd
}

func mergedOptions(cmd *cobra.Command) (runtimeOptions, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return runtimeOptions{}, fmt.Errorf("get cwd: %w", err)
	}

	merged := runtimeOptions{
		Files:      "package.json",
		WorkDir:    cwd,
		LogLevel:   "info",
		LabelMajor: "major",
		LabelMinor: "minor",
		LabelPatch: "patch",
	}

	if rootOpts.ConfigPath != "" {
		fileCfg, err := config.Load(rootOpts.ConfigPath)
		if err != nil {
			return runtimeOptions{}, err
		}

		if fileCfg.Repository != "" {
			merged.Repository = fileCfg.Repository
		}
		if fileCfg.PRNumber != nil {
			merged.PRNumber = *fileCfg.PRNumber
		}
		if fileCfg.Files != "" {
			merged.Files = fileCfg.Files
		}
		if fileCfg.WorkDir != "" {
			merged.WorkDir = fileCfg.WorkDir
		}
		if fileCfg.APIURL != "" {
			merged.APIURL = fileCfg.APIURL
		}
		if fileCfg.CommitMessage != "" {
			merged.CommitMessage = fileCfg.CommitMessage
		}
		if fileCfg.LogLevel != "" {
			merged.LogLevel = fileCfg.LogLevel
		}
		if fileCfg.DryRun != nil {
			merged.DryRun = *fileCfg.DryRun
		}
		if fileCfg.LabelMajor != "" {
			merged.LabelMajor = fileCfg.LabelMajor
		}
		if fileCfg.LabelMinor != "" {
			merged.LabelMinor = fileCfg.LabelMinor
		}
		if fileCfg.LabelPatch != "" {
			merged.LabelPatch = fileCfg.LabelPatch
		}
	}

	if err := applyEnvOverrides(&merged); err != nil {
		return runtimeOptions{}, err
	}

	if cmd.Flags().Changed("token") {
		merged.Token = rootOpts.Token
	}
	if cmd.Flags().Changed("repository") {
		merged.Repository = rootOpts.Repository
	}
	if cmd.Flags().Changed("pr") {
		merged.PRNumber = rootOpts.PRNumber
	}
	if cmd.Flags().Changed("files") {
		merged.Files = rootOpts.Files
	}
	if cmd.Flags().Changed("workdir") {
		merged.WorkDir = rootOpts.WorkDir
	}
	if cmd.Flags().Changed("api-url") {
		merged.APIURL = rootOpts.APIURL
	}
	if cmd.Flags().Changed("commit-message") {
		merged.CommitMessage = rootOpts.CommitMessage
	}
	if cmd.Flags().Changed("log-level") {
		merged.LogLevel = rootOpts.LogLevel
	}
	if cmd.Flags().Changed("dry-run") {
		merged.DryRun = rootOpts.DryRun
	}
	if cmd.Flags().Changed("yes") {
		merged.Yes = rootOpts.Yes
	}
	if cmd.Flags().Changed("label-major") {
		merged.LabelMajor = rootOpts.LabelMajor
	}
	if cmd.Flags().Changed("label-minor") {
		merged.LabelMinor = rootOpts.LabelMinor
	}
	if cmd.Flags().Changed("label-patch") {
		merged.LabelPatch = rootOpts.LabelPatch
	}

	merged.Token = strings.TrimSpace(merged.Token)
	merged.Repository = strings.TrimSpace(merged.Repository)
	merged.Files = strings.TrimSpace(merged.Files)
	merged.WorkDir = strings.TrimSpace(merged.WorkDir)
	merged.APIURL = strings.TrimSpace(merged.APIURL)
	merged.LogLevel = strings.TrimSpace(merged.LogLevel)

	if merged.WorkDir == "" {
		merged.WorkDir = cwd
	}

	return merged, nil
}

func applyEnvOverrides(opts *runtimeOptions) error {
	// GitHub Actions standard variables are honored first so the tool
	// needs no configuration at all inside a workflow; PR_BUMP_*
	// variables override them.
	if value, ok := getenvTrim("GITHUB_TOKEN"); ok {
		opts.Token = value
	}
	if value, ok := getenvTrim("GITHUB_REPOSITORY"); ok {
		opts.Repository = value
	}
	if value, ok := getenvTrim("GITHUB_API_URL"); ok {
		opts.APIURL = value
	}

	if value, ok := getenvTrim("PR_BUMP_TOKEN"); ok {
		opts.Token = value
	}
	if value, ok := getenvTrim("PR_BUMP_REPOSITORY"); ok {
		opts.Repository = value
	}
	if value, ok := getenvTrim("PR_BUMP_API_URL"); ok {
		opts.APIURL = value
	}
	if value, ok := getenvTrim("PR_BUMP_FILES"); ok {
		opts.Files = value
	}
	if value, ok := getenvTrim("PR_BUMP_WORKDIR"); ok {
		opts.WorkDir = value
	}
	if value, ok := getenvTrim("PR_BUMP_COMMIT_MESSAGE"); ok {
		opts.CommitMessage = value
	}
	if value, ok := getenvTrim("PR_BUMP_LOG_LEVEL"); ok {
		opts.LogLevel = value
	}
	if value, ok := getenvTrim("PR_BUMP_LABEL_MAJOR"); ok {
		opts.LabelMajor = value
	}
	if value, ok := getenvTrim("PR_BUMP_LABEL_MINOR"); ok {
		opts.LabelMinor = value
	}
	if value, ok := getenvTrim("PR_BUMP_LABEL_PATCH"); ok {
		opts.LabelPatch = value
	}

	if value, ok := getenvTrim("PR_BUMP_PR_NUMBER"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse PR_BUMP_PR_NUMBER as int: %w", err)
		}
		opts.PRNumber = parsed
	}
	if value, ok := getenvTrim("PR_BUMP_DRY_RUN"); ok {
		parsed, err := parseBoolEnv("PR_BUMP_DRY_RUN", value)
		if err != nil {
			return err
		}
		opts.DryRun = parsed
	}

	return nil
}

func getenvTrim(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

func parseBoolEnv(name, raw string) (bool, error) {
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s as bool: %w", name, err)
	}
	return parsed, nil
}
