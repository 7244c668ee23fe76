package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

const contactCacheTTL = 5 * time.Minute

// ContactDirectory читает справочник контактов из таблицы contacts с кешем в Redis.
// Справочник ведет внешняя система, движок его только читает.
type ContactDirectory struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	logger      *logrus.Logger
	ttl         time.Duration
	load        func(ctx context.Context, userID string) ([]models.Contact, error)
}

func NewContactDirectory(db *pgxpool.Pool, redisClient *redis.Client, logger *logrus.Logger) *ContactDirectory {
	d := &ContactDirectory{
		db:          db,
		redisClient: redisClient,
		logger:      logger,
		ttl:         contactCacheTTL,
	}
	d.load = d.loadFromDB
	return d
}

func contactsCacheKey(userID string) string {
	return fmt.Sprintf("contacts:%s", userID)
}

// GetContactsForUser возвращает контакты сначала из кеша, при промахе из бд.
// Ошибка кеша не мешает чтению из бд.
func (d *ContactDirectory) GetContactsForUser(ctx context.Context, userID string) ([]models.Contact, error) {
	log := d.logger.WithField("user_id", userID)

	contacts, err := d.getFromCache(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Failed to get contacts from cache")
	}
	if contacts != nil {
		return contacts, nil
	}

	contacts, err = d.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := d.setCache(ctx, userID, contacts); err != nil {
		log.WithError(err).Warn("Failed to set contacts cache")
	}
	return contacts, nil
}

// InvalidateContacts удаляет контакты пользователя из кеша
func (d *ContactDirectory) InvalidateContacts(ctx context.Context, userID string) error {
	if err := d.redisClient.Del(ctx, contactsCacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate contacts cache: %w", err)
	}
	return nil
}

func (d *ContactDirectory) getFromCache(ctx context.Context, userID string) ([]models.Contact, error) {
	val, err := d.redisClient.Get(ctx, contactsCacheKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contacts from cache: %w", err)
	}

	contacts := make([]models.Contact, 0)
	if err := json.Unmarshal(val, &contacts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contacts from cache: %w", err)
	}
	return contacts, nil
}

func (d *ContactDirectory) setCache(ctx context.Context, userID string, contacts []models.Contact) error {
	val, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("failed to marshal contacts for cache: %w", err)
	}
	if err := d.redisClient.Set(ctx, contactsCacheKey(userID), val, d.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set contacts in cache: %w", err)
	}
	return nil
}

func (d *ContactDirectory) loadFromDB(ctx context.Context, userID string) ([]models.Contact, error) {
	query := `
		SELECT contact_id, user_id, name, priority_tier, channel_addresses, quiet_hours, timezone
		FROM contacts
		WHERE user_id = $1
		ORDER BY priority_tier, contact_id;
	`
	rows, err := d.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ContactID, &c.UserID, &c.Name, &c.PriorityTier, &c.Addresses, &c.QuietHours, &c.Timezone); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error contact iteration: %w", err)
	}
	return contacts, nil
}
