// internal/service/template_service.go
package service

import (
	"strings"

	"github.com/unclebandit/marketdesk-backend/internal/model"
)

// MissingValue stands in for a placeholder whose field is empty.
const MissingValue = "N/A"

// RenderTemplate replaces every {key} in template with data[key], or
// MissingValue when that value is blank. Unknown placeholders are left alone.
func RenderTemplate(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		if strings.TrimSpace(v) == "" {
			v = MissingValue
		}
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// LeadPlaceholders are the fields a campaign can personalise with.
func LeadPlaceholders(l *model.Lead) map[string]string {
	return map[string]string{
		"name":     l.Name,
		"company":  l.Company,
		"email":    l.Email,
		"position": l.Position,
	}
}
