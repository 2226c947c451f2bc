package console

import (
	"videoadmin-backend-go/internal/client"
	"videoadmin-backend-go/internal/models"
)

// ConfirmFunc gates destructive actions; the shell wires it to a y/n
// prompt and tests inject canned answers.
type ConfirmFunc func(id string) bool

func NewUsersScreen(c *client.Client, notifier *Notifier, confirm ConfirmFunc) *Screen[models.User] {
	defaults := func() map[string]any {
		return map[string]any{
			"username": "",
			"email":    "",
			"role":     "user",
			"status":   "active",
		}
	}
	return NewScreen[models.User]("ユーザー管理", client.NewResource[models.User](c, "users"), notifier, defaults, confirm)
}

func NewVideosScreen(c *client.Client, notifier *Notifier, confirm ConfirmFunc) *Screen[models.Video] {
	defaults := func() map[string]any {
		return map[string]any{
			"title":       "",
			"description": "",
			"category":    "",
			"tags":        []string{},
			"isPublic":    false,
			"views":       0,
		}
	}
	return NewScreen[models.Video]("動画管理", client.NewResource[models.Video](c, "videos"), notifier, defaults, confirm)
}

func NewCategoriesScreen(c *client.Client, notifier *Notifier, confirm ConfirmFunc) *Screen[models.Category] {
	defaults := func() map[string]any {
		return map[string]any{"name": "", "description": ""}
	}
	return NewScreen[models.Category]("カテゴリ管理", client.NewResource[models.Category](c, "categories"), notifier, defaults, confirm)
}

func NewTagsScreen(c *client.Client, notifier *Notifier, confirm ConfirmFunc) *Screen[models.Tag] {
	defaults := func() map[string]any {
		return map[string]any{"name": "", "usageCount": 0}
	}
	return NewScreen[models.Tag]("タグ管理", client.NewResource[models.Tag](c, "tags"), notifier, defaults, confirm)
}

func NewEmailTemplatesScreen(c *client.Client, notifier *Notifier, confirm ConfirmFunc) *Screen[models.EmailTemplate] {
	defaults := func() map[string]any {
		return map[string]any{
			"name":      "",
			"subject":   "",
			"body":      "",
			"variables": []string{},
		}
	}
	return NewScreen[models.EmailTemplate]("メールテンプレート管理", client.NewResource[models.EmailTemplate](c, "email-templates"), notifier, defaults, confirm)
}

func NewSystemLogsSearch(api *client.SystemLogsAPI, notifier *Notifier) *SearchScreen[models.SystemLog] {
	return NewSearchScreen[models.SystemLog]("システムログ", notifier, api.List)
}

func NewViewingRecordsSearch(api *client.ViewingRecordsAPI, notifier *Notifier) *SearchScreen[models.ViewingRecordSummary] {
	return NewSearchScreen[models.ViewingRecordSummary]("視聴記録", notifier, api.List)
}
