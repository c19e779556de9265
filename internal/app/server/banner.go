package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"haircast-core/internal/bridge"
	"haircast-core/internal/version"
)

const bannerWidth = 60

var (
	bannerCyan    = color.New(color.FgCyan).SprintFunc()
	bannerMagenta = color.New(color.FgMagenta).SprintFunc()
	bannerBold    = color.New(color.Bold).SprintFunc()
	bannerFaint   = color.New(color.Faint).SprintFunc()
)

// DisplayStartupBanner prints the startup summary. Color is disabled
// automatically when stdout is not a terminal.
func (s *Server) DisplayStartupBanner(configPath string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	fmt.Println()
	fmt.Printf("  %s _   _    _    ___ ____   ____    _    ____ _____ %s\n", bannerCyan(""), "")
	fmt.Printf("  %s| | | |  / \\  |_ _|  _ \\ / ___|  / \\  / ___|_   _|%s    %sHaircast Gateway%s\n",
		bannerCyan(""), "", bannerBold(""), "")
	fmt.Printf("  %s| |_| | / _ \\  | || |_) | |     / _ \\ \\___ \\ | |  %s\n", bannerCyan(""), "")
	fmt.Printf("  %s|  _  |/ ___ \\ | ||  _ <| |___ / ___ \\ ___) || |  %s    %sVersion %s%s\n",
		bannerMagenta(""), "", bannerFaint(""), version.GetShortVersion(), "")
	fmt.Printf("  %s|_| |_/_/   \\_\\___|_| \\_\\\\____/_/   \\_\\____/ |_|  %s\n", bannerMagenta(""), "")
	fmt.Println()

	fmt.Println(bannerBold("  Gateway Information"))
	fmt.Println(bannerFaint("  " + strings.Repeat("─", bannerWidth)))

	rows := []struct {
		label string
		value string
	}{
		{"Config File", configPath},
		{"Start Time", time.Now().Format("2006-01-02 15:04:05")},
		{"Listen", s.config.HTTP.Addr()},
		{"Stream Path", s.config.Bridge.Path},
		{"Inference Backend", s.config.Inference.Address},
		{"Idle Eviction", (time.Duration(s.config.Session.MaxIdle) * time.Second).String()},
		{"Auth", formatAuth(&s.config.Bridge.Auth)},
		{"Log", fmt.Sprintf("%s (%s)", s.config.Log.Level, s.config.Log.Format)},
	}
	for _, row := range rows {
		fmt.Printf("  %-20s %s\n", bannerFaint(row.label), row.value)
	}

	fmt.Println(bannerFaint("  " + strings.Repeat("─", bannerWidth)))
	fmt.Println()
}

func formatAuth(auth *bridge.AuthConfig) string {
	if auth.Enabled {
		return "jwt (enabled)"
	}
	return "disabled"
}
