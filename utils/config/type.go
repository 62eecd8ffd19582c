package config

// Planner 速度规划器参数
// 功能：定义滚动时域速度规划的全部常量，包括预测时域、代价权重、物理约束、让行线等
// 说明：默认值与仿真器客户端保持一致，见Default
type Planner struct {
	Horizon              int       `yaml:"horizon"`                // 预测时域步数K
	DT                   float64   `yaml:"dt"`                     // 预测步长（秒）
	Cv                   float64   `yaml:"cv"`                     // 代价函数速度项系数
	Ca                   float64   `yaml:"ca"`                     // 代价函数加速度项系数
	Margin               float64   `yaml:"margin"`                 // 路口前的安全距离（负值，位于路口之前）
	TargetV              float64   `yaml:"target_v"`               // 目标速度（米/秒）
	MinA                 float64   `yaml:"min_a"`                  // 最小加速度
	MaxA                 float64   `yaml:"max_a"`                  // 最大加速度
	MinV                 float64   `yaml:"min_v"`                  // 最小速度
	MaxV                 float64   `yaml:"max_v"`                  // 最大速度
	Jerks                []float64 `yaml:"jerks"`                  // 候选加加速度集合（按顺序评估）
	YieldLine            float64   `yaml:"yield_line"`             // 让行线（负值），越过该线的右侧来车需要让行
	InteractionLane      int32     `yaml:"interaction_lane"`       // 交互车道ID
	CollisionProximity   float64   `yaml:"collision_proximity"`    // 碰撞风险判定距离（米）
	CollisionWeight      int       `yaml:"collision_weight"`       // 碰撞风险每步惩罚点数
	DefaultPriorPosition float64   `yaml:"default_prior_position"` // 无前车时假设的前车位置
	EmergencyBrake       bool      `yaml:"emergency_brake"`        // 是否启用紧急制动
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 每轮最大步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔
}

// Control 本地场景运行控制配置
type Control struct {
	Step   ControlStep `yaml:"step"`
	Rounds int32       `yaml:"rounds"` // 本地模式下运行的轮数
}

// Scenario 本地路口场景配置
// 功能：描述本地运动学路口场景的几何与交通流参数
// 说明：主车沿x轴驶向路口（原点），交叉车流沿y轴行驶，右侧来车位于y<0
type Scenario struct {
	Seed          uint64  `yaml:"seed"`           // 随机种子
	EgoStart      float64 `yaml:"ego_start"`      // 主车起点
	EgoSpeed      float64 `yaml:"ego_speed"`      // 主车初速度
	Goal          float64 `yaml:"goal"`           // 主车终点（越过即成功）
	CollisionBox  float64 `yaml:"collision_box"`  // 碰撞判定半径（米）
	SpawnStart    float64 `yaml:"spawn_start"`    // 交叉车流生成位置（距路口距离，正值）
	SpawnGapMin   float64 `yaml:"spawn_gap_min"`  // 相邻来车最小间距
	SpawnGapMax   float64 `yaml:"spawn_gap_max"`  // 相邻来车最大间距
	CrossSpeedMin float64 `yaml:"cross_speed_min"` // 来车最小速度
	CrossSpeedMax float64 `yaml:"cross_speed_max"` // 来车最大速度
	CrossCount    int     `yaml:"cross_count"`    // 每条车道每轮来车数
	LeftLane      int32   `yaml:"left_lane"`      // 左侧来车车道ID（0表示不生成）
	MaxJerk       float64 `yaml:"max_jerk"`       // 统计中判定加加速度是否越限的阈值
}

// Output 统计输出配置（MongoDB），为空则只在内存中记录
type Output struct {
	URI string `yaml:"uri"` // MongoDB连接字符串
	DB  string `yaml:"db"`  // 数据库名
	Col string `yaml:"col"` // 集合名
}

// Config YAML配置文件的根结构
type Config struct {
	Planner  Planner  `yaml:"planner"`
	Control  Control  `yaml:"control"`
	Scenario Scenario `yaml:"scenario"`
	Output   *Output  `yaml:"output,omitempty"`
}
