package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Backend.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized diario storage at: %s\n", ctx.Backend.GetConfigPath())
	return nil
}
