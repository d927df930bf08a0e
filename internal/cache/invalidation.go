package cache

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"
)

// Strategy описывает, что инвалидировать после именованной операции записи:
// базовый шаблон ключей сущности + зависимые ключи. TTL — рекомендация
// для перезаписи (может не использоваться).
type Strategy struct {
	Pattern      string
	Dependencies []string
	TTLSeconds   int
}

// Operation — элемент пакетной инвалидации.
type Operation struct {
	Operation      string
	EntityID       string
	AdditionalKeys []string
}

// InvalidationStats — интроспекция реестра стратегий.
type InvalidationStats struct {
	StrategiesCount int      `json:"strategies_count"`
	Strategies      []string `json:"strategies"`
}

// Invalidator раскрывает именованные операции записи в наборы ключей
// и удаляет их через fail-open Service.
type Invalidator struct {
	svc        *Service
	logger     *log.Logger
	strategies map[string]Strategy
}

// Реестр собирается один раз при старте процесса и дальше только читается.
func NewInvalidator(svc *Service, logger *log.Logger) *Invalidator {
	return NewInvalidatorWithStrategies(svc, logger, defaultStrategies())
}

// NewInvalidatorWithStrategies — вариант с внешним реестром (конфиг/тесты).
func NewInvalidatorWithStrategies(svc *Service, logger *log.Logger, strategies map[string]Strategy) *Invalidator {
	return &Invalidator{svc: svc, logger: logger, strategies: strategies}
}

// Таблица стратегий по операциям записи этого сервиса.
func defaultStrategies() map[string]Strategy {
	food := Strategy{Pattern: "food", Dependencies: []string{"food:list", "food:count"}}
	pantry := Strategy{Pattern: "pantry", Dependencies: []string{"pantry:list", "pantry:count"}}
	shopping := Strategy{Pattern: "shopping_list", Dependencies: []string{"shopping_list:list", "shopping_list:count"}}

	return map[string]Strategy{
		"food:create": food,
		"food:update": food,
		"food:delete": food,

		"pantry:create": pantry,
		"pantry:update": pantry,
		"pantry:delete": pantry,

		"shopping_list:create": shopping,
		"shopping_list:update": shopping,
		"shopping_list:delete": shopping,
		// complete переносит купленное в кладовку — задевает оба ресурса
		"shopping_list:complete": {
			Pattern: "shopping_list",
			Dependencies: []string{
				"shopping_list:list", "shopping_list:count",
				"pantry:list", "pantry:count",
			},
		},

		"user:update": {Pattern: "user_profile"},
	}
}

// Invalidate — одиночная инвалидация по имени операции.
// Нет стратегии — warning и no-op (не ошибка).
func (inv *Invalidator) Invalidate(ctx context.Context, operation, entityID string, additionalKeys ...string) {
	keys, ok := inv.resolveKeys(operation, entityID, additionalKeys)
	if !ok {
		inv.logger.Printf("lvl=warn no invalidation strategy for operation %q, skipping", operation)
		return
	}
	inv.executeInvalidation(ctx, keys)
}

// InvalidateByPattern раскрывает шаблон в конкретные ключи и удаляет их.
func (inv *Invalidator) InvalidateByPattern(ctx context.Context, pattern string) {
	keys, supported := inv.svc.KeysByPattern(ctx, pattern)
	if !supported {
		inv.logger.Printf("lvl=warn pattern invalidation unsupported by cache backend, %q not expanded", pattern)
		return
	}
	if len(keys) == 0 {
		return
	}
	inv.svc.DelMany(ctx, keys)
}

// InvalidateEntity удаляет канонический набор ключей типа сущности,
// не заглядывая в реестр стратегий.
func (inv *Invalidator) InvalidateEntity(ctx context.Context, entityType, entityID string) {
	keys := make([]string, 0, 4)
	if entityID != "" {
		keys = append(keys, entityType+":"+entityID)
	}
	keys = append(keys, entityType+":list", entityType+":count", entityType+":all")
	inv.svc.DelMany(ctx, keys)
}

// ScheduleInvalidation — отложенная инвалидация "выстрелил и забыл".
// Ручки отмены нет; при рестарте процесса таймер теряется — допустимо,
// записи всё равно истекут по TTL.
func (inv *Invalidator) ScheduleInvalidation(keys []string, delay time.Duration) {
	ks := append([]string(nil), keys...)
	time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		inv.executeInvalidation(ctx, ks)
	})
	inv.logger.Printf("scheduled invalidation of %d key(s) in %s", len(ks), delay)
}

// ConditionalInvalidate инвалидирует, только если предикат вернул true.
func (inv *Invalidator) ConditionalInvalidate(ctx context.Context, predicate func(context.Context) (bool, error), keys []string) {
	ok, err := predicate(ctx)
	if err != nil {
		inv.logger.Printf("conditional invalidation predicate failed, skipping: %v", err)
		return
	}
	if !ok {
		return
	}
	inv.executeInvalidation(ctx, keys)
}

// BulkInvalidate объединяет ключи всех операций в дедуплицированное
// множество и удаляет его одним проходом — общие зависимости не ходят
// в хранилище по несколько раз. Операции без стратегии молча пропускаются.
func (inv *Invalidator) BulkInvalidate(ctx context.Context, ops []Operation) {
	set := make(map[string]struct{})
	for _, op := range ops {
		keys, ok := inv.resolveKeys(op.Operation, op.EntityID, op.AdditionalKeys)
		if !ok {
			continue
		}
		for _, k := range keys {
			set[k] = struct{}{}
		}
	}
	if len(set) == 0 {
		return
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys) // детерминированный порядок для логов и тестов
	inv.executeInvalidation(ctx, keys)
}

// Stats — интроспекция (имена зарегистрированных операций).
func (inv *Invalidator) Stats() InvalidationStats {
	names := make([]string, 0, len(inv.strategies))
	for name := range inv.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return InvalidationStats{StrategiesCount: len(names), Strategies: names}
}

// resolveKeys строит набор ключей операции:
// pattern:entityID (если задан) + зависимости стратегии + дополнительные.
func (inv *Invalidator) resolveKeys(operation, entityID string, additionalKeys []string) ([]string, bool) {
	st, ok := inv.strategies[operation]
	if !ok {
		return nil, false
	}

	keys := make([]string, 0, 1+len(st.Dependencies)+len(additionalKeys))
	if entityID != "" {
		keys = append(keys, st.Pattern+":"+entityID)
	}
	keys = append(keys, st.Dependencies...)
	keys = append(keys, additionalKeys...)
	return keys, true
}

// executeInvalidation делит ключи на точные и wildcard ('*').
// Точные удаляются пачкой; каждый wildcard раскрывается через
// опциональный PrefixScanner бэкенда. Если бэкенд выборку по шаблону
// не умеет (Redis-реализация — сознательно), раскрытие пустое и об
// этом громко предупреждаем: wildcard-инвалидация тогда no-op.
func (inv *Invalidator) executeInvalidation(ctx context.Context, keys []string) {
	exact := make([]string, 0, len(keys))
	var wildcards []string
	for _, k := range keys {
		if strings.Contains(k, "*") {
			wildcards = append(wildcards, k)
		} else {
			exact = append(exact, k)
		}
	}

	if len(exact) > 0 {
		inv.svc.DelMany(ctx, exact)
	}

	for _, w := range wildcards {
		expanded, supported := inv.svc.KeysByPattern(ctx, w)
		if !supported {
			inv.logger.Printf("lvl=warn pattern invalidation unsupported by cache backend, %q not expanded", w)
			continue
		}
		if len(expanded) == 0 {
			continue
		}
		inv.svc.DelMany(ctx, expanded)
	}
}
