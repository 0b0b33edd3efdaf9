package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/service/commands"
)

// Console runs the interactive menu loop.
type Console struct {
	dispatcher commands.Dispatcher
	prompter   commands.Prompter
	title      string
	logger     *zap.Logger
}

// New wires a console around a dispatcher.
func New(dispatcher commands.Dispatcher, prompter commands.Prompter, title string, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		dispatcher: dispatcher,
		prompter:   prompter,
		title:      title,
		logger:     logger,
	}
}

// Run shows the menu and dispatches selections until the operator exits or
// input runs out. Operation failures never end the loop.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.prompter.Say(c.menu())

		choice, err := c.prompter.Ask(ctx, "Choose an option: ")
		if err != nil {
			return c.stopped(err)
		}

		cmd := models.ParseCommand(choice)
		reply, err := c.dispatcher.HandleCommand(ctx, cmd)
		switch {
		case errors.Is(err, commands.ErrUnsupportedCommand):
			c.prompter.Say("Invalid option. Please try again.")
			continue
		case err != nil:
			return c.stopped(err)
		}

		if reply != "" {
			c.prompter.Say(reply)
		}
		if cmd.Type == models.CommandExit {
			c.logger.Info("operator exited")
			return nil
		}
	}
}

func (c *Console) stopped(err error) error {
	if errors.Is(err, io.EOF) {
		c.logger.Info("input closed, leaving menu")
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	c.logger.Error("menu loop stopped", zap.Error(err))
	return err
}

func (c *Console) menu() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n===== %s =====", c.title)
	for _, entry := range models.Menu {
		fmt.Fprintf(&b, "\n%s. %s", entry.Key, entry.Label)
	}
	return b.String()
}
