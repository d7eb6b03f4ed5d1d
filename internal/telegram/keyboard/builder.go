package keyboard

import (
	"github.com/futig/fund-faq/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// SchemesKeyboard lists one button per scheme
func (b *Builder) SchemesKeyboard(schemes []entity.Scheme) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, s := range schemes {
		data := EncodeCallback(ActionScheme, entity.Slugify(s.Name))
		if len(data) > maxCallbackBytes {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.Name, data),
		))
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// FieldsKeyboard lists the facts indexed for one scheme, two per row
func (b *Builder) FieldsKeyboard(s entity.Scheme) tgbotapi.InlineKeyboardMarkup {
	slug := entity.Slugify(s.Name)
	rows := [][]tgbotapi.InlineKeyboardButton{}
	var row []tgbotapi.InlineKeyboardButton

	for _, f := range s.Fields {
		if f == entity.FieldOther {
			continue
		}
		data := EncodeCallback(ActionField, FieldValue(slug, string(f)))
		if len(data) > maxCallbackBytes {
			continue
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(f.Label(), data))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ All schemes", EncodeCallback(ActionBack, "schemes")),
	))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
