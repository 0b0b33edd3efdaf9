package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/repository/inventoryfile"
	"github.com/mamadbah2/warehouse/internal/service/inventory"
	"github.com/mamadbah2/warehouse/internal/service/reporting"
)

// ErrUnsupportedCommand indicates the menu selection is not recognised.
var ErrUnsupportedCommand = errors.New("unsupported command")

const nothingLoadedMessage = "No shoes loaded. Choose option 1 first (read shoes data)."

// Prompter collects operator input. Ask returns an error only when no more
// input can be read.
type Prompter interface {
	Ask(ctx context.Context, label string) (string, error)
	Say(message string)
}

// Inventory is the set of core operations the dispatcher drives.
type Inventory interface {
	Len() int
	Load(ctx context.Context) (inventory.LoadReport, error)
	Capture(shoe models.Shoe)
	All() ([]models.Shoe, error)
	Search(code string) (models.Shoe, error)
	HighestQuantity() (models.Shoe, error)
	Lowest() (int, models.Shoe, error)
	Restock(ctx context.Context, index, increment int) (models.Shoe, error)
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	ValuePerItem() (string, error)
	StockSummary() (reporting.Summary, error)
}

// Dispatcher executes one menu selection against the inventory.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	inventory Inventory
	reporting ReportingAdapter
	prompter  Prompter
	source    string
	logger    *zap.Logger
}

// NewService constructs a command dispatcher. source names the backing file in operator messages.
func NewService(inv Inventory, reports ReportingAdapter, prompter Prompter, source string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		inventory: inv,
		reporting: reports,
		prompter:  prompter,
		source:    source,
		logger:    logger,
	}
}

// HandleCommand runs the operation behind cmd and returns the text to show.
// Operation failures become messages; an error is returned only for an
// unknown command or when the prompter can no longer read input.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)))

	switch cmd.Type {
	case models.CommandLoad:
		return s.load(ctx), nil
	case models.CommandCapture:
		return s.capture(ctx)
	case models.CommandViewAll:
		return s.viewAll(), nil
	case models.CommandRestock:
		return s.restock(ctx)
	case models.CommandSearch:
		return s.search(ctx)
	case models.CommandValue:
		return s.valuePerItem(), nil
	case models.CommandHighest:
		return s.highest(), nil
	case models.CommandSummary:
		return s.summary(), nil
	case models.CommandExit:
		return "Goodbye.", nil
	default:
		s.logger.Debug("unsupported menu selection", zap.String("input", cmd.Raw))
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) load(ctx context.Context) string {
	report, err := s.inventory.Load(ctx)
	switch {
	case errors.Is(err, inventoryfile.ErrEmptyFile):
		return fmt.Sprintf("%s is empty.", s.source)
	case errors.Is(err, inventoryfile.ErrFileMissing):
		return fmt.Sprintf("Error: %s not found. Check the INVENTORY_FILE setting.", s.source)
	case errors.Is(err, inventoryfile.ErrPermission):
		return fmt.Sprintf("Error: Permission denied when reading %s.", s.source)
	case err != nil:
		return fmt.Sprintf("Unexpected error while reading %s: %v", s.source, err)
	}

	lines := make([]string, 0, len(report.Skipped)+1)
	for _, skipped := range report.Skipped {
		if errors.Is(skipped, inventoryfile.ErrBadNumber) {
			lines = append(lines, fmt.Sprintf("Skipping line %d (bad number): %s", skipped.Line, skipped.Raw))
		} else {
			lines = append(lines, fmt.Sprintf("Skipping invalid line %d: %s", skipped.Line, skipped.Raw))
		}
	}
	lines = append(lines, fmt.Sprintf("Loaded %d shoes from %s.", report.Loaded, s.source))
	return strings.Join(lines, "\n")
}

func (s *Service) capture(ctx context.Context) (string, error) {
	country, err := s.prompter.Ask(ctx, "Country: ")
	if err != nil {
		return "", err
	}
	code, err := s.prompter.Ask(ctx, "Code: ")
	if err != nil {
		return "", err
	}
	product, err := s.prompter.Ask(ctx, "Product: ")
	if err != nil {
		return "", err
	}

	cost, err := askUntil(ctx, s.prompter, "Cost: ", parseCostInput, func(error) string {
		return "Invalid cost. Please enter a number (e.g. 2300 or 2300.50)."
	})
	if err != nil {
		return "", err
	}

	quantity, err := askUntil(ctx, s.prompter, "Quantity: ", inventory.ParseQuantity, func(error) string {
		return "Invalid quantity. Please enter a whole number (e.g. 10)."
	})
	if err != nil {
		return "", err
	}

	s.inventory.Capture(models.Shoe{
		Country:  strings.TrimSpace(country),
		Code:     strings.TrimSpace(code),
		Product:  strings.TrimSpace(product),
		Cost:     cost.value,
		CostText: cost.text,
		Quantity: quantity,
	})
	return "Shoe captured and added to the list.", nil
}

func (s *Service) viewAll() string {
	shoes, err := s.inventory.All()
	if err != nil {
		return nothingLoadedMessage
	}

	lines := make([]string, 0, len(shoes)+1)
	lines = append(lines, "--- ALL SHOES ---")
	for _, shoe := range shoes {
		lines = append(lines, shoe.String())
	}
	return strings.Join(lines, "\n")
}

func (s *Service) restock(ctx context.Context) (string, error) {
	index, lowest, err := s.inventory.Lowest()
	if err != nil {
		return nothingLoadedMessage, nil
	}

	s.prompter.Say("Lowest stock item:\n" + lowest.String())

	answer, err := s.prompter.Ask(ctx, "Do you want to add stock to this item? (y/n): ")
	if err != nil {
		return "", err
	}
	if !inventory.ParseConfirmation(answer) {
		return "Restock cancelled.", nil
	}

	increment, err := askUntil(ctx, s.prompter, "How many units do you want to add? ", inventory.ParseIncrement, func(err error) string {
		if errors.Is(err, inventory.ErrNotPositive) {
			return "Please enter a number greater than 0."
		}
		return "Please enter a valid whole number."
	})
	if err != nil {
		return "", err
	}

	updated, err := s.inventory.Restock(ctx, index, increment)
	if errors.Is(err, inventory.ErrQuantityOverflow) {
		return fmt.Sprintf("Cannot add %d units: the quantity would overflow. Stock unchanged.", increment), nil
	}

	var warning string
	switch {
	case errors.Is(err, inventoryfile.ErrCodeNotInFile):
		warning = "Warning: Could not update the file line for this shoe (code not found).\n"
	case errors.Is(err, inventoryfile.ErrPermission):
		warning = fmt.Sprintf("Warning: Permission denied when updating %s.\n", s.source)
	case err != nil:
		warning = fmt.Sprintf("Warning: Could not update %s: %v\n", s.source, err)
	}

	return warning + "Stock updated:\n" + updated.String(), nil
}

func (s *Service) search(ctx context.Context) (string, error) {
	if s.inventory.Len() == 0 {
		return nothingLoadedMessage, nil
	}

	code, err := s.prompter.Ask(ctx, "Enter shoe code to search: ")
	if err != nil {
		return "", err
	}

	shoe, err := s.inventory.Search(strings.TrimSpace(code))
	if err != nil {
		return "Shoe not found.", nil
	}
	return "Shoe found:\n" + shoe.String(), nil
}

func (s *Service) valuePerItem() string {
	text, err := s.reporting.ValuePerItem()
	if err != nil {
		return nothingLoadedMessage
	}
	return text
}

func (s *Service) highest() string {
	shoe, err := s.inventory.HighestQuantity()
	if err != nil {
		return nothingLoadedMessage
	}
	return "--- FOR SALE (HIGHEST STOCK) ---\n" + shoe.String()
}

func (s *Service) summary() string {
	sum, err := s.reporting.StockSummary()
	if err != nil {
		return nothingLoadedMessage
	}
	return reporting.FormatSummary(sum)
}

type costInput struct {
	value float64
	text  string
}

// parseCostInput keeps the typed text next to the parsed value so the cost
// serializes exactly as entered.
func parseCostInput(answer string) (costInput, error) {
	value, err := inventory.ParseCost(answer)
	if err != nil {
		return costInput{}, err
	}
	return costInput{value: value, text: strings.TrimSpace(answer)}, nil
}

// askUntil re-prompts until parse accepts the answer. hint builds the
// message shown after each rejected answer.
func askUntil[T any](ctx context.Context, p Prompter, label string, parse func(string) (T, error), hint func(error) string) (T, error) {
	for {
		answer, err := p.Ask(ctx, label)
		if err != nil {
			var zero T
			return zero, err
		}

		value, err := parse(answer)
		if err == nil {
			return value, nil
		}
		p.Say(hint(err))
	}
}
