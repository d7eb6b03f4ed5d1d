package faq

import (
	"github.com/futig/fund-faq/internal/entity"
)

func toAnswerDTO(a *entity.Answer) *entity.AnswerDTO {
	sources := a.Sources
	if sources == nil {
		sources = []string{}
	}
	var warnings []string
	for _, w := range a.Warnings {
		warnings = append(warnings, string(w))
	}

	return &entity.AnswerDTO{
		Answer:      a.Text,
		Sources:     sources,
		Degraded:    a.Degraded,
		Error:       string(a.Error),
		Warnings:    warnings,
		LastUpdated: a.LastUpdated,
		Model:       a.Model,
	}
}

func toSchemeDTOs(schemes []entity.Scheme) []entity.SchemeDTO {
	out := make([]entity.SchemeDTO, 0, len(schemes))
	for _, s := range schemes {
		fields := make([]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			fields = append(fields, string(f))
		}
		out = append(out, entity.SchemeDTO{
			SchemeName: s.Name,
			Category:   s.Category,
			SourceURL:  s.SourceURL,
			Fields:     fields,
		})
	}
	return out
}
