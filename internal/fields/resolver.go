/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package fields

import (
    "strings"

    "github.com/ricardofgarcia/jisa/internal/adapters/jira"
)

// Resolve maps a human field name to the tracker's field id.
// Candidates are tried in order: first a case-insensitive exact match
// across all fields, then a case-insensitive substring containment
// fallback (candidate contained in the display name). Absence is not
// an error; callers decide whether an unresolved field is fatal.
func Resolve(defs []jira.FieldDef, candidates ...string) (string, bool) {
    lower := make([]string, 0, len(candidates))
    for _, c := range candidates {
        c = strings.ToLower(strings.TrimSpace(c))
        if c != "" { lower = append(lower, c) }
    }
    for _, cand := range lower {
        for _, f := range defs {
            if strings.ToLower(f.Name) == cand && f.ID != "" { return f.ID, true }
        }
    }
    for _, cand := range lower {
        for _, f := range defs {
            if strings.Contains(strings.ToLower(f.Name), cand) && f.ID != "" { return f.ID, true }
        }
    }
    return "", false
}
