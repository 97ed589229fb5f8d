package service

import (
	"sort"
	"strings"
	"sync"
)

// NavEntry 店铺前台导航项
type NavEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// NavProvider 导航项提供方，按店铺生成导航
type NavProvider func(storeID string) NavEntry

// NavRegistry 前台导航注册表，模块启动时注册自身的入口
type NavRegistry struct {
	mu        sync.RWMutex
	providers map[string]NavProvider
}

// NewNavRegistry 创建导航注册表
func NewNavRegistry() *NavRegistry {
	return &NavRegistry{providers: make(map[string]NavProvider)}
}

// Register 注册导航项，重复 key 覆盖旧值
func (r *NavRegistry) Register(key string, provider NavProvider) {
	key = strings.TrimSpace(key)
	if key == "" || provider == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[key] = provider
}

// Entries 获取店铺导航（按 order、key 排序）
func (r *NavRegistry) Entries(storeID string) []NavEntry {
	r.mu.RLock()
	entries := make([]NavEntry, 0, len(r.providers))
	for key, provider := range r.providers {
		entry := provider(storeID)
		entry.Key = key
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Order != entries[j].Order {
			return entries[i].Order < entries[j].Order
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// RegisterApparelNav 注册服装商店的前台入口
func RegisterApparelNav(registry *NavRegistry, label string) {
	if strings.TrimSpace(label) == "" {
		label = "Shop"
	}
	registry.Register("apparel", func(storeID string) NavEntry {
		return NavEntry{
			Label: label,
			URL:   "/stores/" + storeID + "/shop",
			Order: 10,
		}
	})
}
