package handler

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type help struct {
	outCh chan<- domain.Message
}

func NewHelp(outCh chan<- domain.Message) *help {
	return &help{outCh: outCh}
}

func (h *help) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, "help")
}

func (h *help) Handle(_ context.Context, u *tgbotapi.Update) {
	text := `Я отвечаю на часто задаваемые вопросы этой программы.
В групповых чатах откликаюсь на настроенные ключевые слова.

Команды для администраторов чата:
- /setfaqsheet — подключить Google-таблицу с FAQ и настройками
- /setpersonalityprompt {текст} — задать мой характер для свободных ответов
- /setwelcomemessage {текст} — настроить приветствие новых участников
- /seterror {текст} — задать сообщение об отказе для не-администраторов
- /addmention {слово} {описание} — добавить ключевое слово для обращения
- /editmentions — посмотреть и удалить ключевые слова
- /toggleanonq — включить или выключить анонимные вопросы кураторам
- /showsettings — показать текущие настройки чата
- /refresh — перечитать FAQ и настройки из Google-таблицы`

	h.outCh <- &domain.TextMessage{
		ChatID:  u.Message.Chat.ID,
		Content: text,
		Plain:   true,
	}
}
