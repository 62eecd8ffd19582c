package recorder

import (
	"context"
	"errors"

	"github.com/tsinghua-fib-lab/righthand-planner/planner"
)

// Tee 将同一条记录写入多个记录器，汇总所有错误
type Tee []planner.Recorder

func (t Tee) Record(ctx context.Context, r planner.RoundRecord) error {
	var errs []error
	for _, rec := range t {
		if err := rec.Record(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
