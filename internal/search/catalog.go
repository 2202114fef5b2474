package search

import "strings"

// CategoryEngines 某个分类下常用的引擎
type CategoryEngines struct {
	Category string
	Engines  []string
}

// Categories SearXNG 内置分类
var Categories = []string{
	"general",
	"images",
	"videos",
	"news",
	"map",
	"music",
	"it",
	"science",
	"files",
	"social media",
}

// EnginesByCategory 各分类下的常用引擎，实际可用的引擎取决于实例配置
var EnginesByCategory = []CategoryEngines{
	{"general", []string{"google", "bing", "duckduckgo", "brave", "qwant", "startpage", "wikipedia"}},
	{"images", []string{"google images", "bing images", "flickr", "unsplash", "wikicommons.images"}},
	{"videos", []string{"youtube", "google videos", "bing videos", "vimeo", "dailymotion"}},
	{"news", []string{"google news", "bing news", "yahoo news", "reuters", "wikinews"}},
	{"map", []string{"openstreetmap", "photon"}},
	{"music", []string{"soundcloud", "bandcamp", "genius", "mixcloud"}},
	{"it", []string{"github", "stackoverflow", "gitlab", "pypi", "npm", "docker hub", "arch linux wiki"}},
	{"science", []string{"arxiv", "google scholar", "pubmed", "semantic scholar", "crossref"}},
	{"files", []string{"fdroid", "apk mirror", "google play apps"}},
	{"social media", []string{"reddit", "mastodon users", "lemmy communities"}},
}

// CategoriesMarkdown 分类列表，每行一个 "- name"
func CategoriesMarkdown() string {
	lines := make([]string, 0, len(Categories))
	for _, c := range Categories {
		lines = append(lines, "- "+c)
	}
	return strings.Join(lines, "\n")
}

// EnginesMarkdown 按分类分组的引擎列表
func EnginesMarkdown() string {
	var lines []string
	for _, group := range EnginesByCategory {
		lines = append(lines, "## "+group.Category)
		for _, e := range group.Engines {
			lines = append(lines, "- "+e)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
