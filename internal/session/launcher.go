package session

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Launcher starts rom files in an external emulator
type Launcher struct {
	command  string   // configured emulator command, empty for auto-detection
	args     []string // additional arguments for the emulator
	coreFlag string   // libretro core flag prefix, e.g., "-L "
	logger   *slog.Logger
}

// emulatorConfig defines platform-specific launch configuration for an emulator
type emulatorConfig struct {
	coreFlag  string              // flag used to select a libretro core, when supported
	platforms map[string][]string // platform -> command names to try in order
}

// emulators registry - single source of truth for emulator configuration
var emulators = map[string]emulatorConfig{
	"retroarch": {
		coreFlag: "-L ",
		platforms: map[string][]string{
			"darwin":  {"retroarch", "open-a:RetroArch"},
			"linux":   {"retroarch", "org.libretro.RetroArch"},
			"windows": {"retroarch.exe"},
		},
	},
	"ares": {
		platforms: map[string][]string{
			"darwin":  {"ares", "open-a:ares"},
			"linux":   {"ares"},
			"windows": {"ares.exe"},
		},
	},
	"mednafen": {
		platforms: map[string][]string{
			"darwin":  {"mednafen"},
			"linux":   {"mednafen"},
			"windows": {"mednafen.exe"},
		},
	},
}

// candidateEmulators defines the preferred emulator order for each platform
var candidateEmulators = map[string][]string{
	"darwin":  {"retroarch", "ares", "mednafen"},
	"linux":   {"retroarch", "ares", "mednafen"},
	"windows": {"retroarch", "ares", "mednafen"},
}

// NewLauncher creates a new Launcher with auto-detection of the core flag
// for known emulators.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	coreFlag := ""
	if command != "" {
		base := filepath.Base(command)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		base = strings.ToLower(base)

		if cfg, ok := emulators[base]; ok && cfg.coreFlag != "" {
			coreFlag = cfg.coreFlag
			logger.Debug("auto-detected emulator core flag", "emulator", base, "flag", coreFlag)
		}
	}

	return &Launcher{
		command:  command,
		args:     args,
		coreFlag: coreFlag,
		logger:   logger,
	}
}

// tryOpenWithApp attempts to open a rom with a specific macOS app using "open -a"
func tryOpenWithApp(appName string, romPath string, emuArgs []string) error {
	cmdArgs := []string{"-a", appName}
	if len(emuArgs) > 0 {
		cmdArgs = append(cmdArgs, "--args")
		cmdArgs = append(cmdArgs, emuArgs...)
	}
	cmdArgs = append(cmdArgs, romPath)

	cmd := exec.Command("open", cmdArgs...)
	return cmd.Run()
}

// tryLaunchWithCommand attempts to launch a rom with a CLI command
func tryLaunchWithCommand(command string, romPath string, args []string) error {
	if _, err := exec.LookPath(command); err != nil {
		return err
	}

	cmdArgs := append(args, romPath)
	cmd := exec.Command(command, cmdArgs...)
	return cmd.Start() // Start async, don't wait
}

// detectAndLaunch tries candidate emulators in order using their platform
// command names. Returns the emulator name that succeeded.
func detectAndLaunch(romPath string, logger *slog.Logger) (string, error) {
	candidates, ok := candidateEmulators[runtime.GOOS]
	if !ok {
		candidates = candidateEmulators["linux"] // default
	}

	for _, name := range candidates {
		emu, exists := emulators[name]
		if !exists {
			continue
		}

		commands, ok := emu.platforms[runtime.GOOS]
		if !ok {
			logger.Debug("emulator not available on this platform", "emulator", name, "platform", runtime.GOOS)
			continue
		}

		for _, command := range commands {
			var err error
			if strings.HasPrefix(command, "open-a:") {
				err = tryOpenWithApp(strings.TrimPrefix(command, "open-a:"), romPath, nil)
			} else {
				err = tryLaunchWithCommand(command, romPath, nil)
			}

			if err == nil {
				logger.Info("launched with detected emulator", "emulator", name, "command", command)
				return name, nil
			}

			logger.Debug("launch command not available", "emulator", name, "command", command, "error", err)
		}
	}

	return "", fmt.Errorf("no candidate emulators found")
}

// Launch starts a downloaded rom file in the configured emulator, a detected
// candidate, or the system default handler, in that order.
func (l *Launcher) Launch(romPath string) error {
	if l.command != "" {
		l.logger.Info("using configured emulator", "command", l.command)
		return l.launchConfigured(romPath)
	}

	if _, err := detectAndLaunch(romPath, l.logger); err == nil {
		return nil
	}

	l.logger.Info("no candidate emulators found, using system default")
	return l.launchDefault(romPath)
}

// launchConfigured launches the rom using the configured emulator command
func (l *Launcher) launchConfigured(romPath string) error {
	args := append([]string{}, l.args...)

	l.logger.Info("launching emulator", "command", l.command, "args", args, "rom", romPath)

	// On macOS, fall back to 'open -a' when the command is a GUI app bundle
	// not present in PATH.
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath(l.command); err != nil {
			l.logger.Info("using macOS 'open -a' to launch GUI app", "app", l.command)
			return tryOpenWithApp(l.command, romPath, args)
		}
	}

	args = append(args, romPath)
	cmd := exec.Command(l.command, args...)
	return cmd.Start()
}

// launchDefault opens the rom using the system default handler
func (l *Launcher) launchDefault(romPath string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", romPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", romPath)
	default:
		// Linux and other Unix-like systems
		cmd = exec.Command("xdg-open", romPath)
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS, "rom", romPath)

	return cmd.Start()
}
