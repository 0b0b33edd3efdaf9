package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/repository/inventoryfile"
)

var (
	// ErrNothingLoaded indicates an operation ran against an empty store.
	ErrNothingLoaded = errors.New("no shoes loaded")
	// ErrNotFound indicates no record carries the requested code.
	ErrNotFound = errors.New("shoe not found")
	// ErrInvalidIndex indicates a record position outside the store.
	ErrInvalidIndex = errors.New("invalid record index")
	// ErrQuantityOverflow indicates an increment the quantity cannot hold.
	ErrQuantityOverflow = errors.New("quantity would overflow")
)

// LoadReport summarizes one Load call.
type LoadReport struct {
	Loaded  int
	Skipped []*inventoryfile.LineError
}

// ItemValue is the stock value of a single record.
type ItemValue struct {
	Product string
	Code    string
	Value   float64
}

// Store is the in-memory, ordered collection of shoes for one session.
type Store struct {
	repo   inventoryfile.Repository
	shoes  []models.Shoe
	logger *zap.Logger
}

// NewStore returns an empty store backed by repository.
func NewStore(repository inventoryfile.Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repository, logger: logger}
}

// Len returns the number of records held.
func (s *Store) Len() int { return len(s.shoes) }

// Load clears the store and repopulates it from the backing file. The
// header line is always skipped and malformed lines are reported in the
// returned LoadReport without aborting. On any file error the store stays
// empty.
func (s *Store) Load(ctx context.Context) (LoadReport, error) {
	s.shoes = nil

	lines, err := s.repo.ReadLines(ctx)
	if err != nil {
		if errors.Is(err, inventoryfile.ErrEmptyFile) {
			s.logger.Warn("inventory file is empty")
		} else {
			s.logger.Error("failed to read inventory file", zap.Error(err))
		}
		return LoadReport{}, err
	}

	var report LoadReport
	for i := 1; i < len(lines); i++ {
		if inventoryfile.IsBlank(lines[i]) {
			continue
		}

		shoe, err := inventoryfile.Decode(i+1, lines[i])
		if err != nil {
			var lineErr *inventoryfile.LineError
			if errors.As(err, &lineErr) {
				report.Skipped = append(report.Skipped, lineErr)
			}
			s.logger.Warn("skipping invalid line", zap.Error(err))
			continue
		}

		s.shoes = append(s.shoes, shoe)
	}

	report.Loaded = len(s.shoes)
	s.logger.Info("inventory loaded", zap.Int("loaded", report.Loaded), zap.Int("skipped", len(report.Skipped)))
	return report, nil
}

// Capture appends a new shoe to the end of the store. The file is not touched.
func (s *Store) Capture(shoe models.Shoe) {
	s.shoes = append(s.shoes, shoe)
	s.logger.Debug("shoe captured", zap.String("code", shoe.Code))
}

// All returns a copy of every record in store order.
func (s *Store) All() ([]models.Shoe, error) {
	if len(s.shoes) == 0 {
		return nil, ErrNothingLoaded
	}

	out := make([]models.Shoe, len(s.shoes))
	copy(out, s.shoes)
	return out, nil
}

// Search returns the first record whose code equals code exactly.
func (s *Store) Search(code string) (models.Shoe, error) {
	if len(s.shoes) == 0 {
		return models.Shoe{}, ErrNothingLoaded
	}

	for _, shoe := range s.shoes {
		if shoe.Code == code {
			return shoe, nil
		}
	}

	return models.Shoe{}, fmt.Errorf("%w: %s", ErrNotFound, code)
}

// ValuePerItem returns cost*quantity for every record in store order.
func (s *Store) ValuePerItem() ([]ItemValue, error) {
	if len(s.shoes) == 0 {
		return []ItemValue{}, ErrNothingLoaded
	}

	values := make([]ItemValue, 0, len(s.shoes))
	for _, shoe := range s.shoes {
		values = append(values, ItemValue{Product: shoe.Product, Code: shoe.Code, Value: shoe.Value()})
	}
	return values, nil
}

// HighestQuantity returns the record with the largest quantity, the first one on ties.
func (s *Store) HighestQuantity() (models.Shoe, error) {
	if len(s.shoes) == 0 {
		return models.Shoe{}, ErrNothingLoaded
	}

	best := 0
	for i := 1; i < len(s.shoes); i++ {
		if s.shoes[i].Quantity > s.shoes[best].Quantity {
			best = i
		}
	}
	return s.shoes[best], nil
}

// Lowest returns the position and value of the record with the smallest
// quantity, the first one on ties.
func (s *Store) Lowest() (int, models.Shoe, error) {
	if len(s.shoes) == 0 {
		return -1, models.Shoe{}, ErrNothingLoaded
	}

	low := 0
	for i := 1; i < len(s.shoes); i++ {
		if s.shoes[i].Quantity < s.shoes[low].Quantity {
			low = i
		}
	}
	return low, s.shoes[low], nil
}

// Restock adds increment to the quantity of the record at index and writes
// the new quantity to the backing file. The in-memory change is kept even
// when the file update fails; the updated record is returned in every case
// where the increment was applied.
func (s *Store) Restock(ctx context.Context, index, increment int) (models.Shoe, error) {
	if len(s.shoes) == 0 {
		return models.Shoe{}, ErrNothingLoaded
	}
	if index < 0 || index >= len(s.shoes) {
		return models.Shoe{}, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if increment <= 0 {
		return models.Shoe{}, fmt.Errorf("%w: %d", ErrNotPositive, increment)
	}
	if s.shoes[index].Quantity > math.MaxInt-increment {
		return models.Shoe{}, fmt.Errorf("%w: %d + %d", ErrQuantityOverflow, s.shoes[index].Quantity, increment)
	}

	s.shoes[index].Quantity += increment
	shoe := s.shoes[index]

	if err := s.repo.RewriteQuantity(ctx, shoe.Code, shoe.Quantity); err != nil {
		s.logger.Warn("restock not persisted", zap.String("code", shoe.Code), zap.Int("quantity", shoe.Quantity), zap.Error(err))
		return shoe, fmt.Errorf("update inventory file: %w", err)
	}

	s.logger.Info("shoe restocked", zap.String("code", shoe.Code), zap.Int("added", increment), zap.Int("quantity", shoe.Quantity))
	return shoe, nil
}
