package compute

import (
	"encoding/binary"
	"math"
)

const (
	SimParamsSize  = 32
	RuleParamsSize = 16
)

// SimParams mirrors the std140 uniform block at binding 0.
type SimParams struct {
	Width       uint32
	Height      uint32
	LuckyChance float32
	Seed        uint32
	EnableLucky uint32
	// Paint is the value written into newborn cells.
	Paint float32
}

// RuleParams mirrors the GameRules uniform block at binding 3.
type RuleParams struct {
	SurvivalMin uint32
	SurvivalMax uint32
	BirthCount  uint32
}

func (p SimParams) Bytes() []byte {
	b := make([]byte, SimParamsSize)
	binary.LittleEndian.PutUint32(b[0:], p.Width)
	binary.LittleEndian.PutUint32(b[4:], p.Height)
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(p.LuckyChance))
	binary.LittleEndian.PutUint32(b[12:], p.Seed)
	binary.LittleEndian.PutUint32(b[16:], p.EnableLucky)
	binary.LittleEndian.PutUint32(b[20:], math.Float32bits(p.Paint))
	return b
}

func (r RuleParams) Bytes() []byte {
	b := make([]byte, RuleParamsSize)
	binary.LittleEndian.PutUint32(b[0:], r.SurvivalMin)
	binary.LittleEndian.PutUint32(b[4:], r.SurvivalMax)
	binary.LittleEndian.PutUint32(b[8:], r.BirthCount)
	return b
}

// luckyHit is the per-cell hash shared with the GLSL programs.
func luckyHit(x, y, seed uint32, chance float32) bool {
	h := x*374761393 + y*668265263 + seed*2246822519
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float32(h%10000)/10000 < chance
}
