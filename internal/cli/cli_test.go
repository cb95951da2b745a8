package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/village-market/internal/dialog"
	"github.com/rcliao/village-market/internal/model"
	"github.com/rcliao/village-market/internal/session"
	"github.com/rcliao/village-market/internal/store"
)

func TestResolveCategory(t *testing.T) {
	got, err := resolveCategory("Food & Drinks", "")
	require.NoError(t, err)
	assert.Equal(t, "Food & Drinks", got)

	got, err = resolveCategory("Transport", "Lorries")
	require.NoError(t, err)
	assert.Equal(t, "Transport - Lorries", got)

	got, err = resolveCategory("Transport", "")
	require.NoError(t, err)
	assert.Equal(t, "Transport", got)

	_, err = resolveCategory("Food & Drinks", "Riders")
	assert.ErrorContains(t, err, "--type only applies")

	_, err = resolveCategory("Transport", "Boats")
	assert.ErrorContains(t, err, "unknown transport type")

	_, err = resolveCategory("Jewellery", "")
	assert.ErrorContains(t, err, "unknown category")
}

func TestMarshalRoundTripYAML(t *testing.T) {
	in := []model.Listing{{Ref: "01ABC", Name: "Mama Jane Shop", Category: "Shops & Daily Needs", Phone: "254700000001", Village: "Sega"}}

	b, err := marshalValue(in, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(b), "name: Mama Jane Shop")

	var out []model.Listing
	require.NoError(t, unmarshalValue(b, "yaml", &out))
	require.Len(t, out, 1)
	assert.Equal(t, in[0].Name, out[0].Name)
	assert.Equal(t, in[0].Village, out[0].Village)

	_, err = marshalValue(in, "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func newSimulator(t *testing.T, raw bool) (*simulator, *bytes.Buffer, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "market.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	var out bytes.Buffer
	return &simulator{
		engine: dialog.New(s, session.NewMemoryStore()),
		req:    dialog.Request{SessionID: "sim", Phone: "+254700000009"},
		out:    &out,
		raw:    raw,
	}, &out, s
}

func TestSimulatorRegistersListing(t *testing.T) {
	sim, out, s := newSimulator(t, true)

	in := strings.NewReader("8\n3\nBoda Joe\n3\n1\n1\n")
	require.NoError(t, sim.run(context.Background(), in))
	assert.Contains(t, out.String(), "END Saved!")

	listings, err := s.Latest(context.Background(), store.LatestParams{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Boda Joe", listings[0].Name)
	assert.Equal(t, "Transport - Riders", listings[0].Category)
	assert.Equal(t, "Murende", listings[0].Village)
	assert.Equal(t, "254700000009", listings[0].Phone)
}

func TestSimulatorStopsWhenInputEnds(t *testing.T) {
	sim, out, _ := newSimulator(t, false)

	require.NoError(t, sim.run(context.Background(), strings.NewReader("\n1\n")))
	assert.Contains(t, out.String(), "Shops & Daily Needs")
	assert.NotContains(t, out.String(), "CON ")
}
