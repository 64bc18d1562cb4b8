package flights

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Airport 机场信息
type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Location 返回 "城市, 国家"，都未知时返回 Location unknown
func (a Airport) Location() string {
	var parts []string
	for _, p := range []string{a.City, a.Country} {
		if p != "" && p != "Unknown" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Location unknown"
	}
	return strings.Join(parts, ", ")
}

// index 保持首次插入顺序的多值索引
type index = orderedmap.OrderedMap[string, []Airport]

func appendTo(x *index, key string, a Airport) {
	list, _ := x.Get(key)
	x.Set(key, append(list, a))
}

// AirportIndex 机场代码、名称单词和城市的查询索引，构建后只读
type AirportIndex struct {
	byCode map[string]Airport
	byWord *index
	byCity *index
}

// NewAirportIndex 为机场列表建立索引
func NewAirportIndex(airports []Airport) *AirportIndex {
	idx := &AirportIndex{
		byCode: make(map[string]Airport, len(airports)),
		byWord: orderedmap.New[string, []Airport](),
		byCity: orderedmap.New[string, []Airport](),
	}
	replacer := strings.NewReplacer("-", " ", "'", "")
	for _, a := range airports {
		idx.byCode[a.Code] = a
		for _, word := range strings.Fields(replacer.Replace(strings.ToLower(a.Name))) {
			appendTo(idx.byWord, word, a)
		}
		appendTo(idx.byCity, strings.ToLower(a.City), a)
	}
	return idx
}

var defaultAirports = NewAirportIndex(majorAirports)

// Search 按优先级查找机场：代码完全匹配、城市完全匹配、名称单词包含、城市名包含，
// 按代码去重后最多返回 limit 个
func (x *AirportIndex) Search(query string, limit int) []Airport {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	var results []Airport
	seen := make(map[string]bool)
	collect := func(airports []Airport) {
		for _, a := range airports {
			if !seen[a.Code] {
				seen[a.Code] = true
				results = append(results, a)
			}
		}
	}

	if a, ok := x.byCode[strings.ToUpper(q)]; ok {
		collect([]Airport{a})
	}
	exact, _ := x.byCity.Get(q)
	collect(exact)
	for pair := x.byWord.Oldest(); pair != nil; pair = pair.Next() {
		if strings.Contains(pair.Key, q) {
			collect(pair.Value)
		}
	}
	for pair := x.byCity.Oldest(); pair != nil; pair = pair.Next() {
		if strings.Contains(pair.Key, q) {
			collect(pair.Value)
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// SearchAirports 在内置机场表中查找
func SearchAirports(query string, limit int) []Airport {
	return defaultAirports.Search(query, limit)
}
