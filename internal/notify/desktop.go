package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"lunarview/internal/models"
	"lunarview/internal/shared"
)

// DesktopPlatform shows notifications through the host notification command
// (notify-send, osascript or powershell depending on the OS).
type DesktopPlatform struct{}

func NewDesktopPlatform() *DesktopPlatform {
	return &DesktopPlatform{}
}

// Supported reports whether the current OS has a known notification command.
func (p *DesktopPlatform) Supported() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
		return true
	default:
		return false
	}
}

// RequestPermission probes the notification command. Desktop platforms have no
// interactive prompt, so a working command counts as a grant.
func (p *DesktopPlatform) RequestPermission(ctx context.Context) (models.Permission, error) {
	switch runtime.GOOS {
	case "linux":
		if _, err := exec.LookPath("notify-send"); err != nil {
			return models.PermissionDenied, nil
		}
		return models.PermissionGranted, nil
	case "darwin", "windows":
		return models.PermissionGranted, nil
	default:
		return models.PermissionDenied, fmt.Errorf("%w: %s", shared.ErrUnsupported, runtime.GOOS)
	}
}

// Show dispatches a desktop notification.
func (p *DesktopPlatform) Show(title, body string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("notify-send", title, body)
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		cmd = exec.Command("osascript", "-e", script)
	case "windows":
		script := fmt.Sprintf(
			"New-BurntToastNotification -Text %q, %q", title, body,
		)
		cmd = exec.Command("powershell", "-NoProfile", "-Command", script)
	default:
		return fmt.Errorf("%w: %s", shared.ErrUnsupported, runtime.GOOS)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notification command failed: %w", err)
	}
	return nil
}
