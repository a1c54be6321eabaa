/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mikeb26/swisspair/store"
)

const version = "v0.3.0"

// app carries state shared by every subcommand once the root's
// PersistentPreRunE has run.
type app struct {
	cfg   Config
	store store.Store
	log   logrus.FieldLogger
}

// Root returns the swisspair command tree.
func Root() *cobra.Command {
	return newRoot(&app{log: logrus.StandardLogger()})
}

// newRoot builds the command tree around a. A store already set on a is
// used as is, which lets tests run without touching disk or S3.
func newRoot(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:  "swisspair",
		Args: cobra.NoArgs,
		Short: "Swiss-system pairing and color balance tracking",
		Long: heredoc.Doc(`swisspair pairs rounds of a Swiss-system tournament,
			keeps each competitor's white/black balance even, and records
			the results so the next round can be paired.

			Tournaments are kept in a store selected by the config file
			(` + DefaultConfigPath() + `) or the --store flag.`),

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			} else if cmd.Flag("verbose").Changed {
				logrus.SetLevel(logrus.DebugLevel)
			}

			return a.setup(cmd)
		},
	}

	// global flags
	root.PersistentFlags().BoolP("help", "h", false, "Show Help Information")
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")
	root.PersistentFlags().Bool("verbose", false, "Show Debug Information")
	root.PersistentFlags().String("config", DefaultConfigPath(),
		"Configuration file")
	root.PersistentFlags().String("store", "", "Store type: file, s3 or memory")
	root.PersistentFlags().String("data-dir", "",
		"Directory holding tournaments when --store=file")
	root.PersistentFlags().String("bucket", "",
		"S3 bucket holding tournaments when --store=s3")

	root.SetVersionTemplate(version + "\n")
	root.Version = version

	// Register the various commands.
	root.AddCommand(sampleCmd(a))
	root.AddCommand(createCmd(a))
	root.AddCommand(fetchCmd(a))
	root.AddCommand(pairCmd(a))
	root.AddCommand(importCmd(a))
	root.AddCommand(resultCmd(a))
	root.AddCommand(standingsCmd(a))
	root.AddCommand(statsCmd(a))
	root.AddCommand(listCmd(a))
	root.AddCommand(deleteCmd(a))

	return root
}

// setup loads configuration, applies flag overrides and opens the store.
func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}

	for flag, dst := range map[string]*string{
		"store":    &cfg.Store,
		"data-dir": &cfg.DataDir,
		"bucket":   &cfg.Bucket,
	} {
		if f := cmd.Flag(flag); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.store != nil || !needsStore(cmd) {
		return nil
	}
	a.store, err = cfg.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	logrus.WithField("store", cfg.Store).Debug("cli.setup: store opened")

	return nil
}

const noStoreAnnotation = "nostore"

func needsStore(cmd *cobra.Command) bool {
	_, skip := cmd.Annotations[noStoreAnnotation]
	return !skip
}
