package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
)

// RateResolver 解析 (类型, 播放数, 时间点) 对应的唯一费率档位。
// 费率为只读参考数据，首次使用时按类型加载并在进程内缓存。
type RateResolver struct {
	repo SettlementRatesRepository
	log  *log.Helper

	mu    sync.Mutex
	rates map[po.SettlementType][]po.SettlementRate
}

// NewRateResolver 构造 RateResolver。
func NewRateResolver(repo SettlementRatesRepository, logger log.Logger) *RateResolver {
	return &RateResolver{
		repo:  repo,
		log:   log.NewHelper(logger),
		rates: make(map[po.SettlementType][]po.SettlementRate),
	}
}

func (r *RateResolver) load(ctx context.Context, typ po.SettlementType) ([]po.SettlementRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.rates[typ]; ok {
		return cached, nil
	}
	rates, err := r.repo.ListByType(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("load %s rates: %w", typ, err)
	}
	r.rates[typ] = rates
	r.log.Infow("msg", "settlement rates loaded", "type", typ, "count", len(rates))
	return rates, nil
}

// Resolve 返回唯一匹配的档位；无匹配或多重匹配均为配置错误。
func (r *RateResolver) Resolve(ctx context.Context, typ po.SettlementType, views int64, ts time.Time) (po.SettlementRate, error) {
	rates, err := r.load(ctx, typ)
	if err != nil {
		return po.SettlementRate{}, err
	}
	var matched []po.SettlementRate
	for _, rate := range rates {
		if rate.ContainsViews(views) && rate.ValidAt(ts) {
			matched = append(matched, rate)
		}
	}
	switch len(matched) {
	case 0:
		return po.SettlementRate{}, faults.Configuration("no %s rate for %d views at %s", typ, views, ts.Format(time.RFC3339))
	case 1:
		return matched[0], nil
	default:
		return po.SettlementRate{}, faults.Configuration("%d %s rates match %d views at %s", len(matched), typ, views, ts.Format(time.RFC3339))
	}
}

// Brackets 返回 ts 时刻有效的全部档位，按下限升序；档位之间必须首尾相接，
// 出现空隙或重叠即为配置错误。
func (r *RateResolver) Brackets(ctx context.Context, typ po.SettlementType, ts time.Time) ([]po.SettlementRate, error) {
	rates, err := r.load(ctx, typ)
	if err != nil {
		return nil, err
	}
	var active []po.SettlementRate
	for _, rate := range rates {
		if rate.ValidAt(ts) {
			active = append(active, rate)
		}
	}
	if len(active) == 0 {
		return nil, faults.Configuration("no %s rate brackets at %s", typ, ts.Format(time.RFC3339))
	}
	sort.Slice(active, func(i, j int) bool { return active[i].MinViews < active[j].MinViews })
	for i := 0; i < len(active)-1; i++ {
		cur, next := active[i], active[i+1]
		if cur.MaxViews == nil {
			return nil, faults.Configuration("%s bracket starting at %d is unbounded but not last", typ, cur.MinViews)
		}
		if want := *cur.MaxViews + 1; next.MinViews != want {
			kind := "gap"
			if next.MinViews < want {
				kind = "overlap"
			}
			return nil, faults.Configuration("%s brackets %s between %d and %d", typ, kind, *cur.MaxViews, next.MinViews)
		}
	}
	return active, nil
}
