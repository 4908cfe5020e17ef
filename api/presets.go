/*
presets.go - Built-in schemes for the catalogue

PURPOSE:
  Makes the bitcoin presets available over HTTP and, on start-up, writes
  them into the scheme catalogue so they can be projected by id like any
  stored scheme.

AVAILABLE PRESETS:
  front-loaded:       0.02 BTC upfront
  builder:            0.015 BTC upfront + 0.001 BTC/yr for 5 years
  slow-accumulation:  0.002 BTC/yr for 10 years

HOW SEEDING WORKS:
 1. Build each preset's JSON definition
 2. Create it in the catalogue, flagged as a preset
 3. Leave existing entries alone, so edits survive restarts

ADDING NEW PRESETS:
 1. Add the scheme to bitcoin.Presets()
 2. Add its JSON builder case to bitcoin.PresetJSON

SEE ALSO:
  - bitcoin/presets.go: Preset definitions
  - handlers.go: Scheme handlers
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/warp/vesting-engine/bitcoin"
	"github.com/warp/vesting-engine/generic"
)

// ListPresets returns the built-in schemes.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets := bitcoin.Presets()
	dtos := make([]PresetDTO, len(presets))
	for i, p := range presets {
		dtos[i] = PresetDTO{
			ID:          string(p.ID),
			Name:        p.Name,
			Description: p.Description,
			Config:      h.Factory.ToJSON(p),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SeedPresets writes the built-in schemes into the catalogue. Existing
// entries with the same id are kept as they are.
func (h *Handler) SeedPresets(ctx context.Context) error {
	seeded := 0
	for _, p := range bitcoin.Presets() {
		doc, ok := bitcoin.PresetJSON(p.ID)
		if !ok {
			return fmt.Errorf("no JSON definition for preset %s", p.ID)
		}
		err := h.Store.Create(ctx, generic.SchemeRecord{
			ID:         p.ID,
			Name:       p.Name,
			ConfigJSON: doc,
			Preset:     true,
		})
		if errors.Is(err, generic.ErrDuplicateScheme) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed preset %s: %w", p.ID, err)
		}
		seeded++
	}
	h.Logger.Info("presets seeded", zap.Int("created", seeded))
	return nil
}
