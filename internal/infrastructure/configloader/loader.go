package configloader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bionicotaku/lingo-services-settlement/configs"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Params 控制配置加载的输入参数。
type Params struct {
	ConfPath string
}

const (
	defaultConfPath = "configs/config.yaml"
	envConfPath     = "CONF_PATH"
)

// 服务身份的环境变量与缺省值。
const (
	envServiceName        = "SERVICE_NAME"
	envServiceVersion     = "SERVICE_VERSION"
	envEnvironment        = "APP_ENV"
	defaultServiceName    = "lingo-services-settlement"
	defaultServiceVersion = "dev"
	defaultEnvironment    = "development"
)

// dotenvNames 按优先级排列：先加载的文件优先，进程环境变量始终优先于文件。
var dotenvNames = []string{".env.local", ".env"}

// LoadError 标记配置加载失败的阶段与文件。
type LoadError struct {
	Stage string
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("config %s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load 依次执行 dotenv → YAML → 环境变量覆盖 → 校验 → 归一化，返回 RuntimeConfig。
func Load(params Params) (RuntimeConfig, error) {
	path := confPathOf(params.ConfPath)
	if err := loadDotenv(searchDirs(path)); err != nil {
		return RuntimeConfig{}, &LoadError{Stage: "dotenv", Err: err}
	}

	bootstrap, err := readBootstrap(path)
	if err != nil {
		return RuntimeConfig{}, err
	}
	// 覆盖发生在校验之前，环境变量同样受约束。
	overrideFromEnv(bootstrap)
	if err := validator.New().Struct(bootstrap); err != nil {
		return RuntimeConfig{}, &LoadError{Stage: "validate", Path: path, Err: err}
	}

	runtime := fromBootstrap(bootstrap)
	runtime.Service = serviceIdentity()
	if err := fillDefaults(&runtime); err != nil {
		return RuntimeConfig{}, &LoadError{Stage: "normalize", Path: path, Err: err}
	}
	return runtime, nil
}

func confPathOf(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if fromEnv := os.Getenv(envConfPath); fromEnv != "" {
		return fromEnv
	}
	return defaultConfPath
}

// searchDirs 返回配置所在目录与工作目录，去重后保持顺序。
func searchDirs(confPath string) []string {
	var dirs []string
	if info, err := os.Stat(confPath); err == nil {
		dir := confPath
		if !info.IsDir() {
			dir = filepath.Dir(confPath)
		}
		dirs = append(dirs, filepath.Clean(dir))
	}
	if cwd, err := os.Getwd(); err == nil && !slices.Contains(dirs, filepath.Clean(cwd)) {
		dirs = append(dirs, filepath.Clean(cwd))
	}
	return dirs
}

func loadDotenv(dirs []string) error {
	var files []string
	for _, dir := range dirs {
		for _, name := range dotenvNames {
			fp := filepath.Join(dir, name)
			if _, err := os.Stat(fp); err == nil && !slices.Contains(files, fp) {
				files = append(files, fp)
			}
		}
	}
	if len(files) == 0 {
		return nil
	}
	// godotenv.Load 不覆盖已存在的变量，因此越靠前的文件优先级越高。
	return godotenv.Load(files...)
}

func readBootstrap(path string) (*configs.Bootstrap, error) {
	c := config.New(config.WithSource(file.NewSource(path)))
	defer c.Close()
	if err := c.Load(); err != nil {
		return nil, &LoadError{Stage: "read", Path: path, Err: err}
	}
	var bootstrap configs.Bootstrap
	if err := c.Scan(&bootstrap); err != nil {
		return nil, &LoadError{Stage: "decode", Path: path, Err: err}
	}
	if bootstrap.Data == nil {
		return nil, &LoadError{Stage: "decode", Path: path, Err: errors.New("missing data section")}
	}
	return &bootstrap, nil
}

// envOverride 把一个非空环境变量写入 Bootstrap。
type envOverride struct {
	key   string
	apply func(data *configs.Data, value string)
}

var envOverrides = []envOverride{
	{key: "DATABASE_URL", apply: func(data *configs.Data, v string) {
		if data.Postgres != nil {
			data.Postgres.DSN = v
		}
	}},
	{key: "REDIS_ADDR", apply: func(data *configs.Data, v string) {
		if data.Cache == nil {
			data.Cache = &configs.Cache{Driver: "redis"}
		}
		data.Cache.Addr = v
	}},
	{key: "REDIS_PASSWORD", apply: func(data *configs.Data, v string) {
		if data.Cache != nil {
			data.Cache.Password = v
		}
	}},
}

func overrideFromEnv(b *configs.Bootstrap) {
	for _, o := range envOverrides {
		if v := os.Getenv(o.key); v != "" {
			o.apply(b.Data, v)
		}
	}
}

func serviceIdentity() ServiceInfo {
	instance, err := os.Hostname()
	if err != nil || instance == "" {
		instance = "unknown-instance"
	}
	return ServiceInfo{
		Name:        envOr(envServiceName, defaultServiceName),
		Version:     envOr(envServiceVersion, defaultServiceVersion),
		Environment: canonicalEnvironment(os.Getenv(envEnvironment)),
		InstanceID:  instance,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var environmentAliases = map[string]string{
	"":            defaultEnvironment,
	"dev":         defaultEnvironment,
	"development": defaultEnvironment,
	"prod":        "production",
	"production":  "production",
}

func canonicalEnvironment(raw string) string {
	if canonical, ok := environmentAliases[raw]; ok {
		return canonical
	}
	return raw
}
