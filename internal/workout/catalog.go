package workout

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Catalog 提供 类别 → 目标肌群 → 动作 的查询能力，内容归外部维护
type Catalog interface {
	Exercises(category Category, target string) []string
}

// StaticCatalog 内存中的动作目录
type StaticCatalog struct {
	entries map[Category]map[string][]string
}

type catalogFile struct {
	Categories map[string]map[string][]string `yaml:"categories"`
}

// NewStaticCatalog 以给定映射构建目录，传入的映射会被复制
func NewStaticCatalog(entries map[Category]map[string][]string) *StaticCatalog {
	c := &StaticCatalog{entries: make(map[Category]map[string][]string, len(entries))}
	for category, targets := range entries {
		copied := make(map[string][]string, len(targets))
		for target, exercises := range targets {
			copied[strings.TrimSpace(target)] = slices.Clone(exercises)
		}
		c.entries[category] = copied
	}
	return c
}

// LoadCatalog 从 YAML 读取目录，类别名必须属于固定枚举
func LoadCatalog(r io.Reader) (*StaticCatalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	entries := make(map[Category]map[string][]string, len(file.Categories))
	for name, targets := range file.Categories {
		category, ok := ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("decode catalog: unknown category %q", name)
		}
		entries[category] = targets
	}
	return NewStaticCatalog(entries), nil
}

// LoadCatalogFile 读取目录文件，path 为空时返回内置目录
func LoadCatalogFile(path string) (*StaticCatalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultCatalog()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return LoadCatalog(f)
}

// DefaultCatalog 返回内置的示例目录
func DefaultCatalog() (*StaticCatalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalogYAML))
}

// Exercises 返回指定类别与肌群下的动作，目标名大小写不敏感
func (c *StaticCatalog) Exercises(category Category, target string) []string {
	if c == nil {
		return nil
	}
	targets, ok := c.entries[category]
	if !ok {
		return nil
	}
	target = strings.TrimSpace(target)
	if exercises, ok := targets[target]; ok {
		return slices.Clone(exercises)
	}
	for name, exercises := range targets {
		if strings.EqualFold(name, target) {
			return slices.Clone(exercises)
		}
	}
	return nil
}

// Targets 返回类别下的全部肌群，按名称排序
func (c *StaticCatalog) Targets(category Category) []string {
	if c == nil {
		return nil
	}
	targets := make([]string, 0, len(c.entries[category]))
	for name := range c.entries[category] {
		targets = append(targets, name)
	}
	slices.Sort(targets)
	return targets
}

// Contains 判断动作是否属于目录
func Contains(catalog Catalog, category Category, target, exercise string) bool {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return false
	}
	for _, candidate := range catalog.Exercises(category, target) {
		if strings.EqualFold(strings.TrimSpace(candidate), exercise) {
			return true
		}
	}
	return false
}
