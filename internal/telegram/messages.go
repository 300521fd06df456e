package telegram

import (
	"fmt"
	"log"
	"strings"
	"unicode"
	"unicode/utf8"

	"goal-path/internal/models"
	"goal-path/internal/utils"
	"goal-path/internal/views"
)

const helpMessage = `🎯 <b>Goal Path</b>

Доступные команды:
/today - главный экран: цель, цитата, задачи на сегодня
/plan [ГГГГ-ММ-ДД] - план дня с подзадачами
/week [ГГГГ-ММ-ДД] - план и итоги недели
/add [ГГГГ-ММ-ДД] задача - добавить задачу
/sub ID задача - добавить подзадачу
/subs ID - подзадачи
/done ID - отметить выполненной или вернуть
/status ID статус - изменить статус
/postpone ID [ГГГГ-ММ-ДД] - перенести задачу
/rm ID - удалить задачу
/goal [Название | Мотивация | ГГГГ-ММ-ДД] - цель
/progress N - прогресс цели в процентах
/reflect - вечерняя рефлексия
/quote - цитата дня
/stats [ГГГГ-ММ-ДД] - статистика за день
/help - помощь

Пример:
/add Сделать 30-минутную тренировку
/goal Пробежать 10 км | Здоровье | 2025-12-31`

const reflectHelp = `📝 <b>Ежедневная рефлексия</b>

/reflect да|нет | что помогло или мешало | как улучшить завтра | задача на завтра

Пример:
/reflect да | мало сна | лечь до 23:00 | Сделать 30-минутную тренировку`

func (b *Bot) SendMessageOrLogError(message string) {
	if err := b.SendMessage(message); err != nil {
		b.logSendError(err)
	}
}

func (b *Bot) logSendError(err error) {
	log.Printf("❌ Ошибка отправки сообщения: %v", err)
}

func taskLine(t models.Task) string {
	return views.TaskLine(t)
}

func statusHelp() string {
	var lines []string
	for _, s := range models.Statuses {
		lines = append(lines, fmt.Sprintf("%s %s (%s)", utils.GetStatusEmoji(s), utils.GetStatusName(s), s))
	}
	return strings.Join(lines, "\n")
}

func reflectionHTML(r models.Reflection) string {
	important := "Нет"
	if r.DidImportant {
		important = "Да"
	}
	return fmt.Sprintf(
		"📝 <b>Рефлексия за %s</b>\n\n"+
			"Сделал что-то важное для цели: %s\n"+
			"Что помогло или мешало: %s\n"+
			"Как улучшить завтра: %s",
		formatDate(r.Date), important,
		views.Escape(r.Obstacles), views.Escape(r.Improvements),
	)
}

func formatDate(date string) string {
	formatted, err := utils.FormatLongDate(date)
	if err != nil {
		return date
	}
	return formatted
}

func tomorrowOf(date string) string {
	next, err := utils.AddDays(date, 1)
	if err != nil {
		return utils.Tomorrow()
	}
	return next
}

// splitFields делит аргументы по "|" ровно на n полей
func splitFields(args string, n int) []string {
	parts := strings.SplitN(args, "|", n)
	fields := make([]string, n)
	for i := range fields {
		if i < len(parts) {
			fields[i] = strings.TrimSpace(parts[i])
		}
	}
	return fields
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "да", "yes", "+":
		return true, true
	case "нет", "no", "-":
		return false, true
	}
	return false, false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
