package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"go.bug.st/serial"

	"github.com/gwillem/stalkbot/pkg/config"
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("stalkbot setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━"))
	fmt.Println()

	path := configPath()
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ignoring unreadable config: %v\n", err)
		cfg = config.Default()
	}
	fmt.Println(subHeaderStyle.Render("Editing " + path))
	fmt.Println()

	frames := strconv.Itoa(cfg.Perception.NumFrames)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Arm bridge URL").
				Description("HTTP bridge that owns the xArm SDK connection").
				Value(&cfg.Arm.BridgeURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Perception service URL").
				Value(&cfg.Perception.URL).
				Validate(validateURL),
			huh.NewInput().
				Title("Frames averaged per detection").
				Value(&frames).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return errors.New("enter a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Box dispenser serial port").
				Description("The Arduino that opens the boxes").
				Options(portOptions(cfg.Accessory.Port)...).
				Value(&cfg.Accessory.Port),
		),
	)
	submitted, err := formOutcome(form.Run())
	if err != nil {
		return fmt.Errorf("setup form: %w", err)
	}
	if !submitted {
		fmt.Println()
		fmt.Println(dimStyle.Render("Setup aborted, nothing saved."))
		return nil
	}
	cfg.Perception.NumFrames, _ = strconv.Atoi(frames)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveTo(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", path)
	fmt.Println()
	fmt.Println("Move the arm home with: " + headerStyle.Render("stalkctl home"))
	return nil
}

// portOptions lists the serial ports present, keeping current selectable even
// when the device is unplugged.
func portOptions(current string) []huh.Option[string] {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
	}

	seen := map[string]bool{}
	var options []huh.Option[string]
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		options = append(options, huh.NewOption(p, p))
	}
	add(current)
	for _, p := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(p, "Bluetooth") {
			continue
		}
		add(p)
	}
	return options
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("enter a URL like http://host:port")
	}
	return nil
}
