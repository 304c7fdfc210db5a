// cmd/cmsctl/main.go
//
// Adept CMS – operator CLI.
//
// Commands
// --------
//
//	cmsctl migrate up|down|status|version
//	cmsctl backups list|count|delete <id>
//
// The database comes from conf/global.yaml (same loader as cmd/web) unless
// --driver and --dsn are given on the command line.
package main

import (
	"os"

	"go.uber.org/zap"
)

func main() {
	zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
