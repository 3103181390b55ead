package tools

import (
	"context"
	log "log/slog"
	"os"
	"os/exec"
	"strings"
)

// Launcher spawns a local process and detaches. Injectable for tests.
type Launcher func(path string) error

func defaultLauncher(path string) error {
	cmd := exec.Command(path)
	return cmd.Start()
}

// OpenApp opens a local application from a static name→path table.
// Unknown names are reported, not launched.
type OpenApp struct {
	apps   map[string]string
	launch Launcher
}

func NewOpenApp() *OpenApp {
	return &OpenApp{
		apps: map[string]string{
			"notepad":    `${SystemRoot}\System32\notepad.exe`,
			"calculator": `${SystemRoot}\System32\calc.exe`,
			"chrome":     `${ProgramFiles}\Google\Chrome\Application\chrome.exe`,
		},
		launch: defaultLauncher,
	}
}

func (o *OpenApp) Name() string { return "open_app" }

func (o *OpenApp) Invoke(_ context.Context, args Args) Result {
	appName := args["app"]

	path, ok := o.apps[strings.ToLower(appName)]
	if !ok {
		return Fail("App '%s' not recognized.", appName)
	}

	if err := o.launch(os.ExpandEnv(path)); err != nil {
		log.Error("Failed to open app", "app", appName, "err", err)
		return Fail("Failed to open %s: %v", appName, err)
	}

	log.Info("App opened", "app", appName)
	return Ok("%s opened successfully!", appName)
}
