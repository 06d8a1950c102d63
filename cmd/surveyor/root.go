package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/surveyor/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "surveyor",
	Short: "Surveyor explores the state space of a program",
	Long: `Surveyor advances execution paths in rounds, archiving deadends and errors,
keeping a bounded set of paths active and spilling the rest.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")

	rootCmd.PersistentFlags().Int("roots", 0, "Number of root paths")
	rootCmd.PersistentFlags().Int("depth", 0, "Depth of the explored tree")
	rootCmd.PersistentFlags().Int("branching", 0, "Successors per path")
	rootCmd.PersistentFlags().Int("error-every", 0, "Mark every n-th path as errored (0 disables)")
	rootCmd.PersistentFlags().Duration("step-delay", 0, "Simulated work per path step")

	rootCmd.PersistentFlags().Int("max-active", 0, "Maximum number of active paths")
	rootCmd.PersistentFlags().Int("max-concurrency", 0, "Worker pool width (0 = one per CPU)")
	rootCmd.PersistentFlags().Bool("pickle", false, "Persist spilled paths to the store")
	rootCmd.PersistentFlags().Bool("save-deadends", true, "Keep full deadended paths, not just their lineage")
	rootCmd.PersistentFlags().Int("steps", 0, "Stop after n steps (-1 = until done)")
	rootCmd.PersistentFlags().Bool("single-step", false, "Pause after every step")
	rootCmd.PersistentFlags().Float64("step-rate", 0, "Maximum steps per second (0 = unlimited)")

	rootCmd.PersistentFlags().String("store", "", "Snapshot store backend (memory, file, redis)")
	rootCmd.PersistentFlags().String("store-path", "", "Directory for the file store")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis store")
	rootCmd.PersistentFlags().Duration("lock-ttl", 0, "Hold an exclusive redis lock for the run, expiring after this long (0 disables)")
	rootCmd.PersistentFlags().String("encryption-key", "", "Base64 AES-256 key for persisted paths (default $"+EnvEncryptionKey+")")
}

// EnvEncryptionKey supplies store.encryption_key when neither the file nor a flag sets it.
const EnvEncryptionKey = "SURVEYOR_ENCRYPTION_KEY"

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"log-format":      "log.format",
	"roots":           "program.roots",
	"depth":           "program.depth",
	"branching":       "program.branching",
	"error-every":     "program.error_every",
	"step-delay":      "program.step_delay",
	"max-active":      "surveyor.max_active",
	"max-concurrency": "surveyor.max_concurrency",
	"pickle":          "surveyor.pickle_on_spill",
	"save-deadends":   "surveyor.save_deadends",
	"steps":           "surveyor.steps",
	"single-step":     "surveyor.single_step",
	"step-rate":       "surveyor.step_rate",
	"store":           "store.backend",
	"store-path":      "store.path",
	"redis-addr":      "store.redis.addr",
	"lock-ttl":        "store.redis.lock_ttl",
	"encryption-key":  "store.encryption_key",
	"addr":            "http.addr",
}

// loadConfig reads --config (or the defaults) and applies every flag the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	overrides := make(map[string]any)
	if key := os.Getenv(EnvEncryptionKey); key != "" && cfg.Store.EncryptionKey == "" {
		setPath(overrides, []string{"store", "encryption_key"}, key)
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		setPath(overrides, strings.Split(key, "."), f.Value.String())
	})
	if len(overrides) > 0 {
		if err := config.Decode(overrides, &cfg); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, cfg.Validate()
}

func setPath(m map[string]any, path []string, value string) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
