package data

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ExpTable holds, per EXP group, the cumulative experience required to
// reach each level 1..100 (pokemon_exp.txt, one line per group, §6.1).
type ExpTable [][]uint32

// parseExpTable reads the per-group EXP curve text table. Each line is a
// whitespace/comma separated list of cumulative EXP thresholds for levels
// 1..100, one line per EXP group.
func parseExpTable(raw []byte) (ExpTable, error) {
	var table ExpTable
	sc := bufio.NewScanner(strings.NewReader(string(raw)))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		levels := make([]uint32, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseUint(f, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("data: parsing exp curve value %q: %w", f, err)
			}
			levels = append(levels, uint32(v))
		}
		table = append(table, levels)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// LevelForExperience derives a level from accumulated EXP via binary
// search over group's per-level curve, clamped to [2, 100] (§4.4 "level is
// derived from accumulated EXP via binary search on the per-species EXP
// curve and clamped to [2, 100]").
func (t ExpTable) LevelForExperience(group uint8, exp uint32) uint8 {
	if int(group) >= len(t) {
		return 2
	}
	curve := t[group]
	if len(curve) == 0 {
		return 2
	}

	// curve[i] is the cumulative EXP required to reach level i+1.
	level := sort.Search(len(curve), func(i int) bool {
		return curve[i] > exp
	})
	// sort.Search returns the index i of the first threshold that exceeds
	// exp; that is level i+1's threshold, so the highest level reached is
	// the one at index i-1, whose number is i.
	reached := level
	if reached < 2 {
		reached = 2
	}
	if reached > 100 {
		reached = 100
	}
	return uint8(reached)
}
