/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mikeb26/swisspair/internal/cli"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	root := cli.Root()
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
