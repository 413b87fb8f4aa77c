package config

import "fmt"

type invalidWeightsError struct {
	sum float64
}

func (e *invalidWeightsError) Error() string {
	return fmt.Sprintf("scoring weights must sum to 1.0, got %.4f", e.sum)
}

type configError string

func (e configError) Error() string { return string(e) }

func errConfig(msg string) error { return configError(msg) }
