package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"` // #RRGGBB
}

func (c *Category) GenerateID() {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: empty category name", ErrInvalidInput)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: unknown category type %q", ErrInvalidInput, c.Type)
	}
	return nil
}

// RGB разбирает цвет категории. ok = false для некорректного значения.
func (c Category) RGB() (r, g, b uint8, ok bool) {
	hex := strings.TrimPrefix(c.Color, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// IsLight определяет, светлый ли цвет (воспринимаемая яркость выше 128).
// Некорректный цвет считается темным.
func (c Category) IsLight() bool {
	r, g, b, ok := c.RGB()
	if !ok {
		return false
	}
	brightness := (int(r)*299 + int(g)*587 + int(b)*114) / 1000
	return brightness > 128
}

// CategoryLookup ищет категорию по имени, на которое ссылаются транзакции, бюджеты и цели
type CategoryLookup interface {
	Lookup(name string) (Category, bool)
}

// CategoryIndex сопоставляет имя категории с первой зарегистрированной категорией с этим именем
type CategoryIndex map[string]Category

func NewCategoryIndex(categories []Category) CategoryIndex {
	index := make(CategoryIndex, len(categories))
	for _, c := range categories {
		if _, exists := index[c.Name]; !exists {
			index[c.Name] = c
		}
	}
	return index
}

func (idx CategoryIndex) Lookup(name string) (Category, bool) {
	c, ok := idx[name]
	return c, ok
}
