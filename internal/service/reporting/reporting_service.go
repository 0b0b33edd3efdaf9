package reporting

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/service/inventory"
)

// StockReader is the read side of the inventory store used for reports.
type StockReader interface {
	All() ([]models.Shoe, error)
	ValuePerItem() ([]inventory.ItemValue, error)
}

// Summary aggregates the whole stock.
type Summary struct {
	Records     int
	Units       int
	TotalValue  decimal.Decimal
	LowestCode  string
	HighestCode string
}

// Service exposes lightweight stock reports for the console.
type Service struct {
	stock  StockReader
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(stock StockReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{stock: stock, logger: logger}
}

// ValuePerItem renders one line per record with its stock value.
func (s *Service) ValuePerItem() (string, error) {
	values, err := s.stock.ValuePerItem()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("--- VALUE PER ITEM ---")
	for _, v := range values {
		fmt.Fprintf(&b, "\nProduct: %s | Code: %s | Value: %s", v.Product, v.Code, formatFloat(v.Value))
	}
	return b.String(), nil
}

// StockSummary totals units and value over every record. The total value is
// accumulated with decimal arithmetic from each record's cost text.
func (s *Service) StockSummary() (Summary, error) {
	shoes, err := s.stock.All()
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Records: len(shoes), TotalValue: decimal.Zero}
	lowest, highest := 0, 0
	for i, shoe := range shoes {
		summary.Units += shoe.Quantity
		summary.TotalValue = summary.TotalValue.Add(costOf(shoe, s.logger).Mul(decimal.NewFromInt(int64(shoe.Quantity))))

		if shoe.Quantity < shoes[lowest].Quantity {
			lowest = i
		}
		if shoe.Quantity > shoes[highest].Quantity {
			highest = i
		}
	}
	summary.LowestCode = shoes[lowest].Code
	summary.HighestCode = shoes[highest].Code

	return summary, nil
}

// FormatSummary renders a Summary for display.
func FormatSummary(sum Summary) string {
	return fmt.Sprintf("--- STOCK SUMMARY ---\nRecords: %d | Units: %d | Total value: %s\nLowest stock: %s | Highest stock: %s",
		sum.Records, sum.Units, sum.TotalValue.StringFixed(2), sum.LowestCode, sum.HighestCode)
}

func costOf(shoe models.Shoe, logger *zap.Logger) decimal.Decimal {
	d, err := decimal.NewFromString(shoe.CostString())
	if err != nil {
		if math.IsNaN(shoe.Cost) || math.IsInf(shoe.Cost, 0) {
			logger.Warn("cost is not finite, valued at zero", zap.String("code", shoe.Code))
			return decimal.Zero
		}
		// hex floats parse as float64 but not as decimal text
		logger.Debug("cost text not decimal, using float", zap.String("code", shoe.Code), zap.Error(err))
		return decimal.NewFromFloat(shoe.Cost)
	}
	return d
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
