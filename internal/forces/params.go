package forces

import "fmt"

const (
	DefaultLinkDistance    = 100.0
	DefaultChargeStrength  = -20.0
	DefaultCollisionRadius = 75.0
)

// Params are the three tunable physics values persisted with a session.
type Params struct {
	LinkDistance    float64 `json:"linkDistance" yaml:"link_distance" toml:"link_distance" validate:"gt=0"`
	ChargeStrength  float64 `json:"chargeStrength" yaml:"charge_strength" toml:"charge_strength"`
	CollisionRadius float64 `json:"collisionRadius" yaml:"collision_radius" toml:"collision_radius" validate:"gte=0"`
}

func DefaultParams() Params {
	return Params{
		LinkDistance:    DefaultLinkDistance,
		ChargeStrength:  DefaultChargeStrength,
		CollisionRadius: DefaultCollisionRadius,
	}
}

func (p Params) Validate() error {
	if !finite(p.LinkDistance) || p.LinkDistance <= 0 {
		return fmt.Errorf("linkDistance must be positive, got %v: %w", p.LinkDistance, ErrInvalidValue)
	}
	if !finite(p.ChargeStrength) {
		return fmt.Errorf("chargeStrength must be finite, got %v: %w", p.ChargeStrength, ErrInvalidValue)
	}
	if !finite(p.CollisionRadius) || p.CollisionRadius < 0 {
		return fmt.Errorf("collisionRadius must be >= 0, got %v: %w", p.CollisionRadius, ErrInvalidValue)
	}
	return nil
}
