// Package provider implements representative.Source for the built-in demo
// records, JSON files and remote JSON providers.
package provider

import (
	"context"

	"github.com/turtacn/regionmap/internal/domain/representative"
)

// Fixture serves the five demo representatives used when no source is
// configured.
type Fixture struct{}

func NewFixture() *Fixture { return &Fixture{} }

func (Fixture) Name() string { return "fixture" }

// Fetch returns a fresh copy on every call.
func (Fixture) Fetch(_ context.Context) ([]representative.Representative, error) {
	return FixtureRepresentatives(), nil
}

// FixtureRepresentatives returns the demo records.
func FixtureRepresentatives() []representative.Representative {
	return []representative.Representative{
		{
			ID:         1,
			Name:       "Иванов Иван Иванович",
			Position:   "Региональный менеджер",
			Phone:      "+7 (495) 123-45-67",
			Email:      "ivanov@leadcore.ru",
			RegionIDs:  representative.Associations{"ЦФО", "СЗФО"},
			Activities: []string{"Лабораторное", "Госпитальное"},
		},
		{
			ID:         2,
			Name:       "Петров Петр Петрович",
			Position:   "Менеджер по продажам",
			Phone:      "+7 (812) 987-65-43",
			Email:      "petrov@leadcore.ru",
			RegionIDs:  representative.Associations{"RU-SPE"},
			Activities: []string{"Эфферентные методы"},
		},
		{
			ID:         3,
			Name:       "Сидорова Анна Сергеевна",
			Position:   "Территориальный менеджер",
			Phone:      "+7 (863) 111-22-33",
			Email:      "sidorova@leadcore.ru",
			RegionIDs:  representative.Associations{"ЮФО"},
			Activities: []string{"Служба крови", "Лабораторное"},
		},
		{
			ID:         4,
			Name:       "Козлов Дмитрий Александрович",
			Position:   "Региональный представитель",
			Phone:      "+7 (383) 444-55-66",
			Email:      "kozlov@leadcore.ru",
			RegionIDs:  representative.Associations{"СФО", "УФО"},
			Activities: []string{"Госпитальное"},
		},
		{
			ID:         5,
			Name:       "Михайлова Елена Викторовна",
			Position:   "Менеджер",
			Phone:      "+7 (423) 777-88-99",
			Email:      "mikhailova@leadcore.ru",
			RegionIDs:  representative.Associations{"ДФО"},
			Activities: []string{"Лабораторное", "Эфферентные методы"},
		},
	}
}

//Personal.AI order the ending
