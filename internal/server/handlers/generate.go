package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/handlescout/handlescout/internal/core/gen"
	apperrors "github.com/handlescout/handlescout/internal/errors"
	"github.com/handlescout/handlescout/internal/metrics"
)

const (
	defaultGenerateCount = 20
	maxGenerateCount     = 500
)

// GenerateResponse is the payload returned by the generate endpoint.
type GenerateResponse struct {
	Names       []string           `json:"names"`
	Count       int                `json:"count"`
	Constraints GenerateConstraint `json:"constraints"`
	Seed        int64              `json:"seed,omitempty"`
}

// GenerateConstraint echoes the effective constraints back to the caller.
type GenerateConstraint struct {
	LengthMin int    `json:"length_min"`
	LengthMax int    `json:"length_max"`
	DigitsMin int    `json:"digits_min"`
	DigitsMax int    `json:"digits_max"`
	Require   string `json:"require,omitempty"`
}

// GenerateHandler samples candidate names matching the constraints given
// as query parameters. Availability is never checked here.
func GenerateHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	count, err := intParam(q.Get("count"), defaultGenerateCount)
	if err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid count parameter"))
		return
	}
	if count <= 0 || count > maxGenerateCount {
		respondWithError(w, r, apperrors.NewInvalidInputError("count must be between 1 and 500"))
		return
	}

	c := gen.Constraints{
		LengthMin: 5,
		LengthMax: 6,
		Require:   q.Get("require"),
	}

	if c.LengthMin, err = intParam(q.Get("length_min"), c.LengthMin); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid length_min parameter"))
		return
	}
	if c.LengthMax, err = intParam(q.Get("length_max"), c.LengthMax); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid length_max parameter"))
		return
	}
	if c.DigitsMin, err = intParam(q.Get("digits_min"), c.DigitsMin); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid digits_min parameter"))
		return
	}
	if c.DigitsMax, err = intParam(q.Get("digits_max"), c.DigitsMax); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid digits_max parameter"))
		return
	}

	if err := c.Validate(); err != nil {
		respondWithError(w, r, apperrors.WrapValidationError(r.Context(), err, "constraints are not satisfiable"))
		return
	}

	var seed int64
	if raw := q.Get("seed"); raw != "" {
		seed, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid seed parameter"))
			return
		}
	}

	rngSeed := seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	names := gen.Sample(rng, count, c)
	metrics.RecordOperation("generate", true)

	response := GenerateResponse{
		Names: names,
		Count: len(names),
		Constraints: GenerateConstraint{
			LengthMin: c.LengthMin,
			LengthMax: c.LengthMax,
			DigitsMin: c.DigitsMin,
			DigitsMax: c.DigitsMax,
			Require:   c.Require,
		},
		Seed: seed,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
