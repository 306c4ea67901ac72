package batch

import (
	"context"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"

	"github.com/bionicotaku/lingo-utils/txmanager"
)

// Reject 记录一条因校验失败被跳过的输入。
type Reject struct {
	Key int64
	Err error
}

// Transformed 是一个块的转换结果。
type Transformed[Out any] struct {
	Rows    []Out
	Rejects []Reject
}

// Step 描述一个阶段在单个分区内的 fetch → transform → persist 逻辑。
//
// Transform 与 Persist 在同一事务内执行；返回的错误按 faults.Classify 决定重放或失败。
type Step[In, Out any] interface {
	// Open 打开分区的记录流。resume 为 checkpoint 中的游标，首次运行为 nil。
	Open(ctx context.Context, p Partition, resume *int64) Source[In]
	// Key 返回记录的游标键，块提交后写入 checkpoint。
	Key(item In) int64
	Transform(ctx context.Context, sess txmanager.Session, p Partition, items []In) (Transformed[Out], error)
	// Persist 返回写入的行数。
	Persist(ctx context.Context, sess txmanager.Session, p Partition, rows []Out) (int64, error)
}

// Publisher 可选：块提交后执行的下游副作用。失败不回滚已提交的数据。
type Publisher[Out any] interface {
	Publish(ctx context.Context, p Partition, rows []Out) error
}

// TransformEach 逐条转换，校验类错误计入 Rejects，其余错误立即返回。
func TransformEach[In, Out any](items []In, key KeyFunc[In], fn func(In) (Out, error)) (Transformed[Out], error) {
	out := Transformed[Out]{Rows: make([]Out, 0, len(items))}
	for _, item := range items {
		row, err := fn(item)
		if err != nil {
			if faults.Classify(err) == faults.ClassSkippable {
				out.Rejects = append(out.Rejects, Reject{Key: key(item), Err: err})
				continue
			}
			return Transformed[Out]{}, err
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
