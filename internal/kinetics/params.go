// Package kinetics evaluates the closed-form solution of Michaelis–Menten
// enzyme kinetics,
//
//	E + S ⇌ ES → E + P    (k₁, k₋₁, k_cat)
//
// using S(t) = K_M·W₀((S₀/K_M)·exp((S₀ - V_max·t)/K_M)).
//
// The canonical input is the set of elementary rate constants
// {k₁, k₋₁, k_cat, E₀}. Parameters derived from them keep k₁ because the
// enzyme–substrate complex relaxes at rate (K_M + S)·k₁.
package kinetics

import (
	"math"

	"github.com/Robaina/JupyterNotebooks/internal/numeric"
)

// RateConstants are the elementary constants of the reaction scheme plus
// the total enzyme concentration.
type RateConstants struct {
	K1      float64 `yaml:"k1" json:"k1"`
	KMinus1 float64 `yaml:"k_minus1" json:"k_minus1"`
	KCat    float64 `yaml:"k_cat" json:"k_cat"`
	E0      float64 `yaml:"e0" json:"e0"`
}

// Parameters are the derived kinetic parameters.
type Parameters struct {
	KM   float64 `json:"km" yaml:"km"`
	Vmax float64 `json:"vmax" yaml:"vmax"`
	K1   float64 `json:"k1" yaml:"k1"`
	E0   float64 `json:"e0" yaml:"e0"`
}

// DeriveParameters computes K_M = (k₋₁ + k_cat)/k₁ and V_max = k_cat·E₀.
func DeriveParameters(rc RateConstants) (Parameters, error) {
	const op = "derive parameters"
	if err := positive(op, "k1", rc.K1); err != nil {
		return Parameters{}, err
	}
	if err := nonNegative(op, "k_minus1", rc.KMinus1); err != nil {
		return Parameters{}, err
	}
	if err := nonNegative(op, "k_cat", rc.KCat); err != nil {
		return Parameters{}, err
	}
	if err := nonNegative(op, "e0", rc.E0); err != nil {
		return Parameters{}, err
	}
	p := Parameters{
		KM:   (rc.KMinus1 + rc.KCat) / rc.K1,
		Vmax: rc.KCat * rc.E0,
		K1:   rc.K1,
		E0:   rc.E0,
	}
	if err := p.validate(op); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// NewParameters builds Parameters from K_M, V_max, k₁ and E₀ directly.
func NewParameters(km, vmax, k1, e0 float64) (Parameters, error) {
	p := Parameters{KM: km, Vmax: vmax, K1: k1, E0: e0}
	if err := p.validate("new parameters"); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

func (p Parameters) validate(op string) error {
	if err := positive(op, "km", p.KM); err != nil {
		return err
	}
	if err := nonNegative(op, "vmax", p.Vmax); err != nil {
		return err
	}
	if err := positive(op, "k1", p.K1); err != nil {
		return err
	}
	return nonNegative(op, "e0", p.E0)
}

// AssumptionRatio returns E₀/(K_M + S₀). The quasi-steady-state assumption
// behind the closed form holds when this is much smaller than one.
func AssumptionRatio(p Parameters, s0 float64) (float64, error) {
	const op = "assumption ratio"
	if err := p.validate(op); err != nil {
		return 0, err
	}
	if err := nonNegative(op, "s0", s0); err != nil {
		return 0, err
	}
	return p.E0 / (p.KM + s0), nil
}

func positive(op, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return numeric.InvalidArgument(op, name, v, "must be finite and > 0")
	}
	return nil
}

func nonNegative(op, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return numeric.InvalidArgument(op, name, v, "must be finite and >= 0")
	}
	return nil
}
