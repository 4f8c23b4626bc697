// Package open hands links to the system browser.
package open

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/listentui/listentui/constant"
)

// Start opens link in the default browser without waiting for it.
// Only http and https links are accepted.
func Start(link string) error {
	cmd, err := command(runtime.GOOS, link)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(goos, link string) (*exec.Cmd, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("refusing to open %q", link)
	}

	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", link), nil
	case constant.Darwin:
		return exec.Command("open", link), nil
	case constant.Linux:
		return exec.Command("xdg-open", link), nil
	case constant.Android:
		return exec.Command("termux-open", link), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}
