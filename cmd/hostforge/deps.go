package main

import (
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/opshall/hostforge/internal/bootstrap"
	"github.com/opshall/hostforge/internal/catalog"
	"github.com/opshall/hostforge/internal/cmdrun"
	"github.com/opshall/hostforge/internal/confedit"
	"github.com/opshall/hostforge/internal/config"
	"github.com/opshall/hostforge/internal/report"
)

const auditLogDir = "/var/log/hostforge"

const sshServiceName = "ssh"

var (
	newAppFunc     = newApp
	checkPrivilege = cmdrun.CheckPrivilege
	homeDirFunc    = homedir.Dir
)

// app bundles the assembled collaborators behind the CLI commands. One app
// spans one invocation, so the editor's backup ledger covers the whole run.
type app struct {
	cfg          *config.Config
	catalog      *catalog.Catalog
	runtime      *catalog.Runtime
	bootstrapper *bootstrap.Bootstrapper
	collector    *report.Collector
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	home, err := homeDirFunc()
	if err != nil {
		home = "/root"
	}
	paths := catalog.DefaultPaths(home)

	// Audit logging is best-effort: a read-only /var/log must not block
	// provisioning.
	audit, err := cmdrun.NewAuditLogger(auditLogDir)
	if err != nil {
		audit = zap.NewNop().Sugar()
	}
	runner := &cmdrun.ExecRunner{Audit: audit}
	editor := confedit.NewEditor(confedit.RealSystem{})

	return &app{
		cfg:     cfg,
		catalog: catalog.New(cfg, paths),
		runtime: &catalog.Runtime{Runner: runner, Editor: editor, Sys: confedit.RealSystem{}},
		bootstrapper: &bootstrap.Bootstrapper{
			Runner:     runner,
			Editor:     editor,
			Sys:        confedit.RealSystem{},
			SSHDConfig: paths.SSHDConfig,
			SSHService: sshServiceName,
		},
		collector: report.NewCollector(),
	}, nil
}
