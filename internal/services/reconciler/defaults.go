package reconciler

import (
	"encoding/json"
	"strings"

	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

// Ключи metadata платежной сессии.
const (
	metaPlanTier  = "planTier"
	metaFirstName = "firstName"
	metaLastName  = "lastName"
	metaYearGroup = "yearGroup"
	metaSubjects  = "subjects"
)

// Значения по умолчанию для нового пользователя, когда metadata
// платежной сессии их не содержит.
var (
	DefaultTier      = models.TierBasic
	DefaultYearGroup = models.YearGroupGCSE
	DefaultSubjects  = []models.Subject{models.SubjectMaths, models.SubjectEnglish, models.SubjectScience}
)

// tierFromMetadata возвращает уровень тарифа из metadata.
// Неизвестные значения приводятся к DefaultTier.
func tierFromMetadata(metadata map[string]string) models.Tier {
	switch models.Tier(strings.ToUpper(metadata[metaPlanTier])) {
	case models.TierPremium:
		return models.TierPremium
	case models.TierBasic:
		return models.TierBasic
	default:
		return DefaultTier
	}
}

// yearGroupFromMetadata возвращает учебную ступень из metadata.
// Неизвестные значения приводятся к DefaultYearGroup.
func yearGroupFromMetadata(metadata map[string]string) models.YearGroup {
	switch yg := models.YearGroup(strings.ToUpper(metadata[metaYearGroup])); yg {
	case models.YearGroupKS3, models.YearGroupGCSE, models.YearGroupALevel:
		return yg
	default:
		return DefaultYearGroup
	}
}

// subjectsFromMetadata возвращает список предметов из metadata:
// JSON-массив строк, либо перечисление через запятую от старых
// клиентов. Неизвестные предметы отбрасываются, пустой результат
// приводится к DefaultSubjects.
func subjectsFromMetadata(metadata map[string]string) []models.Subject {
	raw := strings.TrimSpace(metadata[metaSubjects])
	if raw == "" {
		return DefaultSubjects
	}
	var parts []string
	if err := json.Unmarshal([]byte(raw), &parts); err != nil {
		parts = strings.Split(raw, ",")
	}
	var result []models.Subject
	for _, part := range parts {
		switch s := models.Subject(strings.ToUpper(strings.TrimSpace(part))); s {
		case models.SubjectMaths, models.SubjectEnglish, models.SubjectScience,
			models.SubjectHistory, models.SubjectGeography:
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return DefaultSubjects
	}
	return result
}
