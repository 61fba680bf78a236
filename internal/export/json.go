package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/gradr/internal/api"
	"github.com/sadopc/gradr/internal/stats"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Profile    jsonProfile `json:"profile"`
	Monthly    []jsonMonth `json:"monthly_xp"`
	Skills     []jsonSkill `json:"skills"`
	XPCount    int         `json:"xp_transaction_count"`
}

type jsonProfile struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Login      string  `json:"login"`
	Email      string  `json:"email"`
	CreatedAt  string  `json:"created_at"`
	AuditRatio float64 `json:"audit_ratio"`
}

type jsonMonth struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type jsonSkill struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ToJSON writes a full dashboard snapshot: profile, the dense monthly series,
// and per-skill totals.
func ToJSON(acct *api.Account, series []stats.MonthPoint, skills []stats.SkillTotal, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Profile: jsonProfile{
			FirstName:  acct.Profile.FirstName,
			LastName:   acct.Profile.LastName,
			Login:      acct.Profile.Login,
			Email:      acct.Profile.Email,
			CreatedAt:  acct.Profile.CreatedAt.UTC().Format(time.RFC3339),
			AuditRatio: acct.Profile.AuditRatio,
		},
		XPCount: len(acct.XP),
	}

	for _, p := range series {
		out.Monthly = append(out.Monthly, jsonMonth{Month: p.Label, Amount: p.Amount})
	}
	for _, s := range skills {
		out.Skills = append(out.Skills, jsonSkill{Category: s.Category, Amount: s.Amount})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
