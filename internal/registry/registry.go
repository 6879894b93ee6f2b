package registry

import (
	"context"
	"sort"

	"stream-push-relay/internal/models"
)

// Registry хранит соответствие userId -> push-токен.
// Записи только добавляются или перезаписываются, удаления и TTL нет.
type Registry interface {
	// Register сохраняет или перезаписывает токен пользователя.
	// Возвращает models.ErrMissingTokenFields, если userID или token пусты.
	Register(ctx context.Context, userID, token string) error
	// Lookup возвращает токен пользователя или models.ErrTokenNotFound.
	Lookup(ctx context.Context, userID string) (string, error)
	// List возвращает все записи с замаскированными токенами.
	List(ctx context.Context) ([]models.TokenPreview, error)
	// Count возвращает количество зарегистрированных токенов.
	Count(ctx context.Context) (int, error)
}

func validate(userID, token string) (string, string, error) {
	in := models.RegisterPushTokenInput{UserID: userID, PushToken: token}
	if err := in.Validate(); err != nil {
		return "", "", err
	}
	return in.UserID, in.PushToken, nil
}

func previews(entries map[string]string) []models.TokenPreview {
	out := make([]models.TokenPreview, 0, len(entries))
	for userID, token := range entries {
		out = append(out, models.TokenPreview{
			UserID:       userID,
			TokenPreview: models.RedactToken(token),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
