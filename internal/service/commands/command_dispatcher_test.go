package commands

import (
	"context"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/warehouse/internal/config"
	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/repository/inventoryfile"
	"github.com/mamadbah2/warehouse/internal/service/inventory"
	"github.com/mamadbah2/warehouse/internal/service/reporting"
)

const header = "Country,Code,Product,Cost,Quantity\n"

// scriptedPrompter answers prompts from a fixed list and records output.
type scriptedPrompter struct {
	answers []string
	asked   []string
	said    []string
}

func (p *scriptedPrompter) Ask(_ context.Context, label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptedPrompter) Say(message string) {
	p.said = append(p.said, message)
}

type fixture struct {
	svc      *Service
	store    *inventory.Store
	prompter *scriptedPrompter
	path     string
}

func newFixture(t *testing.T, content string, answers ...string) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, err := inventoryfile.NewFileRepository(config.InventoryConfig{FilePath: path}, nil)
	require.NoError(t, err)

	store := inventory.NewStore(repo, nil)
	prompter := &scriptedPrompter{answers: answers}
	svc := NewService(store, reporting.NewService(store, nil), prompter, "inventory.txt", nil)
	return &fixture{svc: svc, store: store, prompter: prompter, path: path}
}

func (f *fixture) run(t *testing.T, typ models.CommandType) string {
	t.Helper()
	reply, err := f.svc.HandleCommand(context.Background(), models.Command{Type: typ})
	require.NoError(t, err)
	return reply
}

func TestHandleLoad(t *testing.T) {
	f := newFixture(t, header+"USA,SH001,AirMax,120.5,3\nbad\nUSA,SH002,Runner,x,1\n")

	reply := f.run(t, models.CommandLoad)
	assert.Equal(t, "Skipping invalid line 3: bad\n"+
		"Skipping line 4 (bad number): USA,SH002,Runner,x,1\n"+
		"Loaded 1 shoes from inventory.txt.", reply)
}

func TestHandleLoadFailures(t *testing.T) {
	empty := newFixture(t, "")
	assert.Equal(t, "inventory.txt is empty.", empty.run(t, models.CommandLoad))

	missing := newFixture(t, header)
	require.NoError(t, os.Remove(missing.path))
	assert.Equal(t, "Error: inventory.txt not found. Check the INVENTORY_FILE setting.", missing.run(t, models.CommandLoad))
}

func TestHandleNothingLoaded(t *testing.T) {
	f := newFixture(t, header)

	for _, typ := range []models.CommandType{
		models.CommandViewAll,
		models.CommandRestock,
		models.CommandSearch,
		models.CommandValue,
		models.CommandHighest,
		models.CommandSummary,
	} {
		assert.Equal(t, nothingLoadedMessage, f.run(t, typ), typ)
	}
	assert.Empty(t, f.prompter.asked, "nothing is prompted before the store is checked")
}

func TestHandleCaptureRePrompts(t *testing.T) {
	f := newFixture(t, header, " Italy ", "SH100", " Loafer ", "cheap", "", "75.50", "many", "4")

	reply := f.run(t, models.CommandCapture)
	assert.Equal(t, "Shoe captured and added to the list.", reply)
	assert.Equal(t, []string{
		"Invalid cost. Please enter a number (e.g. 2300 or 2300.50).",
		"Invalid cost. Please enter a number (e.g. 2300 or 2300.50).",
		"Invalid quantity. Please enter a whole number (e.g. 10).",
	}, f.prompter.said)

	shoe, err := f.store.Search("SH100")
	require.NoError(t, err)
	assert.Equal(t, models.Shoe{Country: "Italy", Code: "SH100", Product: "Loafer", Cost: 75.5, CostText: "75.50", Quantity: 4}, shoe)
	assert.Equal(t, header, readFile(t, f.path))
}

func TestHandleRestock(t *testing.T) {
	f := newFixture(t, header+"USA,SH001,AirMax,120.5,3\nUSA,SH002,Runner,80,50\n", "y", "0", "-5", "ten", "10")
	f.run(t, models.CommandLoad)

	reply := f.run(t, models.CommandRestock)
	assert.Equal(t, "Stock updated:\nCountry: USA | Code: SH001 | Product: AirMax | Cost: 120.5 | Quantity: 13", reply)
	assert.Equal(t, []string{
		"Lowest stock item:\nCountry: USA | Code: SH001 | Product: AirMax | Cost: 120.5 | Quantity: 3",
		"Please enter a number greater than 0.",
		"Please enter a number greater than 0.",
		"Please enter a valid whole number.",
	}, f.prompter.said)
	assert.Equal(t, header+"USA,SH001,AirMax,120.5,13\nUSA,SH002,Runner,80,50\n", readFile(t, f.path))
}

func TestHandleRestockDeclined(t *testing.T) {
	content := header + "USA,SH001,AirMax,120.5,3\n"
	f := newFixture(t, content, "n")
	f.run(t, models.CommandLoad)

	assert.Equal(t, "Restock cancelled.", f.run(t, models.CommandRestock))
	shoe, err := f.store.Search("SH001")
	require.NoError(t, err)
	assert.Equal(t, 3, shoe.Quantity)
	assert.Equal(t, content, readFile(t, f.path))
}

func TestHandleRestockCodeMissingFromFile(t *testing.T) {
	f := newFixture(t, header+"USA,SH001,AirMax,120.5,3\n", "Y", "2")
	f.run(t, models.CommandLoad)
	require.NoError(t, os.WriteFile(f.path, []byte(header), 0o644))

	reply := f.run(t, models.CommandRestock)
	assert.Equal(t, "Warning: Could not update the file line for this shoe (code not found).\n"+
		"Stock updated:\nCountry: USA | Code: SH001 | Product: AirMax | Cost: 120.5 | Quantity: 5", reply)
	assert.Equal(t, header, readFile(t, f.path))
}

func TestHandleSearch(t *testing.T) {
	f := newFixture(t, header+"USA,SH001,AirMax,120.5,3\n", " SH001 ", "SH404")
	f.run(t, models.CommandLoad)

	assert.Equal(t, "Shoe found:\nCountry: USA | Code: SH001 | Product: AirMax | Cost: 120.5 | Quantity: 3", f.run(t, models.CommandSearch))
	assert.Equal(t, "Shoe not found.", f.run(t, models.CommandSearch))
}

func TestHandleReports(t *testing.T) {
	f := newFixture(t, header+"USA,SH001,AirMax,120.5,3\nZA,SH010,Court,2300.0,5\nUSA,SH002,Runner,80,5\n")
	f.run(t, models.CommandLoad)

	assert.Equal(t, "--- ALL SHOES ---\n"+
		"Country: USA | Code: SH001 | Product: AirMax | Cost: 120.5 | Quantity: 3\n"+
		"Country: ZA | Code: SH010 | Product: Court | Cost: 2300.0 | Quantity: 5\n"+
		"Country: USA | Code: SH002 | Product: Runner | Cost: 80 | Quantity: 5", f.run(t, models.CommandViewAll))

	assert.Contains(t, f.run(t, models.CommandValue), "Product: Court | Code: SH010 | Value: 11500")
	assert.Equal(t, "--- FOR SALE (HIGHEST STOCK) ---\n"+
		"Country: ZA | Code: SH010 | Product: Court | Cost: 2300.0 | Quantity: 5", f.run(t, models.CommandHighest))
	assert.Contains(t, f.run(t, models.CommandSummary), "Total value: 12261.50")
}

func TestHandleExitAndUnknown(t *testing.T) {
	f := newFixture(t, header)

	assert.Equal(t, "Goodbye.", f.run(t, models.CommandExit))

	_, err := f.svc.HandleCommand(context.Background(), models.Command{Type: models.CommandUnknown})
	assert.ErrorIs(t, err, ErrUnsupportedCommand)
}

func TestHandleUnknownLogsInput(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store := inventory.NewStore(&deniedRepository{}, nil)
	svc := NewService(store, reporting.NewService(store, nil), &scriptedPrompter{}, "inventory.txt", zap.New(core))

	_, err := svc.HandleCommand(context.Background(), models.ParseCommand(" 42 "))
	require.ErrorIs(t, err, ErrUnsupportedCommand)

	entries := logs.FilterMessage("unsupported menu selection").All()
	require.Len(t, entries, 1)
	assert.Equal(t, " 42 ", entries[0].ContextMap()["input"])
}

func TestHandlePropagatesClosedInput(t *testing.T) {
	f := newFixture(t, header+"USA,SH001,AirMax,120.5,3\n", "y")
	f.run(t, models.CommandLoad)

	_, err := f.svc.HandleCommand(context.Background(), models.Command{Type: models.CommandRestock})
	assert.ErrorIs(t, err, io.EOF)

	_, err = f.svc.HandleCommand(context.Background(), models.Command{Type: models.CommandCapture})
	assert.ErrorIs(t, err, io.EOF)
}

// deniedRepository serves fixed lines and fails reads or rewrites with a
// permission error.
type deniedRepository struct {
	lines       []string
	denyRead    bool
	denyRewrite bool
}

func (r *deniedRepository) denied(op string) error {
	return inventoryfile.ClassifyError(op, "inventory.txt", &fs.PathError{Op: "open", Path: "inventory.txt", Err: fs.ErrPermission})
}

func (r *deniedRepository) ReadLines(context.Context) ([]string, error) {
	if r.denyRead {
		return nil, r.denied("read")
	}
	return r.lines, nil
}

func (r *deniedRepository) RewriteQuantity(context.Context, string, int) error {
	if r.denyRewrite {
		return r.denied("write")
	}
	return nil
}

func newStubFixture(repo inventoryfile.Repository, answers ...string) *fixture {
	store := inventory.NewStore(repo, nil)
	prompter := &scriptedPrompter{answers: answers}
	svc := NewService(store, reporting.NewService(store, nil), prompter, "inventory.txt", nil)
	return &fixture{svc: svc, store: store, prompter: prompter}
}

func TestHandleLoadPermissionDenied(t *testing.T) {
	f := newStubFixture(&deniedRepository{denyRead: true})
	f.store.Capture(models.Shoe{Code: "SH001", Quantity: 1})

	assert.Equal(t, "Error: Permission denied when reading inventory.txt.", f.run(t, models.CommandLoad))
	assert.Equal(t, 0, f.store.Len())
}

func TestHandleRestockPermissionDenied(t *testing.T) {
	f := newStubFixture(&deniedRepository{
		lines:       []string{header, "USA,SH001,AirMax,120.5,3\n"},
		denyRewrite: true,
	}, "y", "4")
	f.run(t, models.CommandLoad)

	reply := f.run(t, models.CommandRestock)
	assert.Equal(t, "Warning: Permission denied when updating inventory.txt.\n"+
		"Stock updated:\nCountry: USA | Code: SH001 | Product: AirMax | Cost: 120.5 | Quantity: 7", reply)

	shoe, err := f.store.Search("SH001")
	require.NoError(t, err)
	assert.Equal(t, 7, shoe.Quantity)
}

func TestHandleRestockOverflow(t *testing.T) {
	content := header + "USA,SH001,AirMax,120.5,3\n"
	increment := strconv.Itoa(math.MaxInt - 1)
	f := newFixture(t, content, "y", increment)
	f.run(t, models.CommandLoad)

	assert.Equal(t, "Cannot add "+increment+" units: the quantity would overflow. Stock unchanged.", f.run(t, models.CommandRestock))

	shoe, err := f.store.Search("SH001")
	require.NoError(t, err)
	assert.Equal(t, 3, shoe.Quantity)
	assert.Equal(t, content, readFile(t, f.path))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
