package recorder

import (
	"context"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/tsinghua-fib-lab/righthand-planner/planner"
)

// Memory 内存记录器
// 功能：按轮次ID保存最近capacity轮的统计，保持写入顺序
// 说明：同一轮次重复写入时覆盖旧记录但不改变顺序
type Memory struct {
	mtx      sync.Mutex
	capacity int
	records  *orderedmap.OrderedMap[int32, planner.RoundRecord]
}

// NewMemory 创建内存记录器，capacity<=0表示不限制
func NewMemory(capacity int) *Memory {
	return &Memory{
		capacity: capacity,
		records:  orderedmap.NewOrderedMap[int32, planner.RoundRecord](),
	}
}

func (m *Memory) Record(_ context.Context, r planner.RoundRecord) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.records.Set(r.Round, r)
	for m.capacity > 0 && m.records.Len() > m.capacity {
		m.records.Delete(m.records.Front().Key)
	}
	return nil
}

// Get 获取指定轮次的记录
func (m *Memory) Get(round int32) (planner.RoundRecord, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.records.Get(round)
}

// Records 按写入顺序返回全部记录
func (m *Memory) Records() []planner.RoundRecord {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	res := make([]planner.RoundRecord, 0, m.records.Len())
	for el := m.records.Front(); el != nil; el = el.Next() {
		res = append(res, el.Value)
	}
	return res
}

// SuccessRate 成功轮数占比
func (m *Memory) SuccessRate() float64 {
	records := m.Records()
	if len(records) == 0 {
		return 0
	}
	n := 0
	for _, r := range records {
		if r.Stats.Success {
			n++
		}
	}
	return float64(n) / float64(len(records))
}
