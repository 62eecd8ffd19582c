package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/righthand-planner/planner"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const writeTimeout = 5 * time.Second

// Mongo MongoDB记录器
// 功能：将每轮统计作为一条文档写入{db}.{col}
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo 连接MongoDB
// 参数：ctx-上下文，c-输出配置
// 返回：记录器与错误
func NewMongo(ctx context.Context, c config.Output) (*Mongo, error) {
	if c.URI == "" || c.DB == "" || c.Col == "" {
		return nil, errors.New("mongo output requires uri, db and col")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect %s: %w", c.URI, err)
	}
	log.Infof("record rounds to mongo %s.%s", c.DB, c.Col)
	return &Mongo{
		client: client,
		coll:   client.Database(c.DB).Collection(c.Col),
	}, nil
}

func (m *Mongo) Record(ctx context.Context, r planner.RoundRecord) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if _, err := m.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert round %d: %w", r.Round, err)
	}
	return nil
}

// Close 断开连接
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
