package main

import (
	"fmt"

	"github.com/gwillem/stalkbot/pkg/accessory"
)

type DeployCommand struct {
	Box  int    `short:"b" long:"box" required:"true" description:"Box number to open"`
	Port string `short:"p" long:"port" description:"Serial port (default from config)"`
}

func (c *DeployCommand) Execute(args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	port := c.Port
	if port == "" {
		port = cfg.Accessory.Port
	}

	box, err := accessory.Open(port, cfg.Accessory.BaudRate)
	if err != nil {
		return err
	}
	defer box.Close()

	if err := box.Deploy(ctx, c.Box); err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Box %d opened.", c.Box)))
	return nil
}
