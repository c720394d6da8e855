// Package entities provides core data structures for versus-api.
package entities

// FightResult is the structured outcome of a single "who would win" request.
// It lives for one request/render cycle and is never stored.
type FightResult struct {
	Winner           string        `json:"winner"`
	StrengthA        float64       `json:"strength_a"`
	StrengthB        float64       `json:"strength_b"`
	SpecialAttackA   SpecialAttack `json:"special_attack_a"`
	SpecialAttackB   SpecialAttack `json:"special_attack_b"`
	FightDescription string        `json:"fight_description"`
}

// JSON field names of a FightResult, in schema order.
const (
	FieldWinner           = "winner"
	FieldStrengthA        = "strength_a"
	FieldStrengthB        = "strength_b"
	FieldSpecialAttackA   = "special_attack_a"
	FieldSpecialAttackB   = "special_attack_b"
	FieldFightDescription = "fight_description"
)

// FightResultFields lists every field a complete FightResult carries.
var FightResultFields = []string{
	FieldWinner,
	FieldStrengthA,
	FieldStrengthB,
	FieldSpecialAttackA,
	FieldSpecialAttackB,
	FieldFightDescription,
}
