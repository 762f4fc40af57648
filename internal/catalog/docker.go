package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/opshall/hostforge/internal/messages"
)

// minDockerVersion is the oldest engine version the test assertion accepts.
const minDockerVersion = "20.10.0"

var dockerVersionRe = regexp.MustCompile(`Docker version ([0-9]+\.[0-9]+\.[0-9]+)`)

func dockerComponent(paths Paths) *Component {
	return &Component{
		ID:      IDContainerRuntime,
		Label:   messages.CatalogLabelContainerRuntime,
		Package: "docker.io",
		Service: "docker",
		InstallSteps: []Step{
			{
				Name:   "install docker.io",
				Cmd:    []string{"apt-get", "install", "-y", "docker.io"},
				Benign: []string{benignAptNewest},
			},
			{
				Name: "enable docker",
				Cmd:  []string{"systemctl", "enable", "--now", "docker"},
			},
		},
		UninstallSteps: []Step{
			{
				Name:   "stop docker",
				Cmd:    []string{"systemctl", "stop", "docker", "docker.socket"},
				Benign: []string{benignUnitNotLoaded, benignUnitMissing},
			},
			{
				Name:   "disable docker",
				Cmd:    []string{"systemctl", "disable", "docker"},
				Benign: []string{benignUnitNotLoaded, benignUnitMissing},
			},
			{
				Name:   "remove docker.io",
				Cmd:    []string{"apt-get", "remove", "--purge", "-y", "docker.io"},
				Benign: []string{benignAptMissing},
			},
			{
				Name:        "delete docker state",
				RemovePaths: []string{paths.DockerLib, paths.DockerEtc},
			},
		},
		Assertions: []Assertion{
			{
				Name: "engine version supported",
				Check: func(ctx context.Context, rt *Runtime) error {
					res, err := rt.Runner.Run(ctx, "docker", "--version")
					if err != nil {
						return err
					}
					return checkDockerVersion(res.Output)
				},
			},
			{
				Name: "daemon responding",
				Check: func(ctx context.Context, rt *Runtime) error {
					_, err := rt.Runner.Run(ctx, "docker", "info")
					return err
				},
			},
			{
				Name: "docker service active",
				Check: func(ctx context.Context, rt *Runtime) error {
					_, err := rt.Runner.Run(ctx, "systemctl", "is-active", "--quiet", "docker")
					return err
				},
			},
		},
	}
}

// checkDockerVersion parses `docker --version` output and compares the
// engine version against minDockerVersion.
func checkDockerVersion(output string) error {
	match := dockerVersionRe.FindStringSubmatch(output)
	if match == nil {
		return fmt.Errorf(messages.DockerAssertVersionParseFmt, strings.TrimSpace(output))
	}
	current, err := goversion.NewVersion(match[1])
	if err != nil {
		return fmt.Errorf(messages.DockerAssertVersionParseFmt, match[1])
	}
	minimum := goversion.Must(goversion.NewVersion(minDockerVersion))
	if current.LessThan(minimum) {
		return fmt.Errorf(messages.DockerAssertVersionTooOldFmt, current, minimum)
	}
	return nil
}
