package interview

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownLevel   = errors.New("unknown level")
	ErrUnknownSection = errors.New("unknown section")
)

// Level is the candidate's seniority
type Level string

const (
	LevelJunior Level = "Junior"
	LevelMiddle Level = "Middle"
	LevelSenior Level = "Senior"
)

// Levels lists levels in the order they are offered
var Levels = []Level{LevelJunior, LevelMiddle, LevelSenior}

// ParseLevel validates a level name
func ParseLevel(name string) (Level, error) {
	for _, l := range Levels {
		if string(l) == name {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// Section is an interview topic area
type Section struct {
	ID     string
	Name   string
	Topics []string
}

// Sections is the catalog offered by /interview. IDs are used in callback data.
var Sections = []Section{
	{
		ID:     "go",
		Name:   "Go",
		Topics: []string{"горутины и каналы", "интерфейсы", "слайсы и мапы", "обработка ошибок", "context", "планировщик и GC"},
	},
	{
		ID:     "js",
		Name:   "JavaScript",
		Topics: []string{"замыкания", "event loop", "промисы и async/await", "прототипы", "this и контекст вызова"},
	},
	{
		ID:     "algo",
		Name:   "Алгоритмы и структуры данных",
		Topics: []string{"сложность алгоритмов", "сортировки", "хеш-таблицы", "деревья", "графы", "динамическое программирование"},
	},
	{
		ID:     "db",
		Name:   "Базы данных",
		Topics: []string{"индексы", "транзакции и уровни изоляции", "нормализация", "репликация и шардирование", "SQL vs NoSQL"},
	},
	{
		ID:     "net",
		Name:   "Сети",
		Topics: []string{"TCP и UDP", "HTTP/1.1, HTTP/2, HTTP/3", "TLS", "DNS", "REST и gRPC"},
	},
	{
		ID:     "design",
		Name:   "Системный дизайн",
		Topics: []string{"масштабирование", "кэширование", "очереди сообщений", "консистентность", "отказоустойчивость"},
	},
}

// FindSection returns the catalog section with the given ID
func FindSection(id string) (Section, error) {
	for _, s := range Sections {
		if s.ID == id {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
}
