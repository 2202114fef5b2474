package searx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// decodeJSON 解析 format=json 的响应，只关心 results 字段
func decodeJSON(body []byte) ([]Record, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	raw, ok := payload["results"]
	if !ok {
		return nil, fmt.Errorf("%w: missing results field", ErrMalformedResponse)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: results: %v", ErrMalformedResponse, err)
	}
	return records, nil
}

// decodeHTML 解析 SearXNG 结果页，字段缺失时不写入对应 key
func decodeHTML(body []byte) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse HTML failed: %v", ErrMalformedResponse, err)
	}

	var records []Record
	doc.Find("article.result").Each(func(i int, s *goquery.Selection) {
		rec := Record{}

		link := s.Find("h3 a").First()
		if link.Length() > 0 {
			rec["title"] = strings.TrimSpace(link.Text())
			if href, ok := link.Attr("href"); ok {
				rec["url"] = href
			}
		}
		if _, ok := rec["url"]; !ok {
			if href, ok := s.Find("a.url_header").First().Attr("href"); ok {
				rec["url"] = href
			}
		}

		if content := s.Find("p.content").First(); content.Length() > 0 {
			rec["content"] = strings.TrimSpace(content.Text())
		}

		if engines := s.Find(".engines span"); engines.Length() > 0 {
			names := make([]any, 0, engines.Length())
			engines.Each(func(_ int, e *goquery.Selection) {
				names = append(names, strings.TrimSpace(e.Text()))
			})
			rec["engines"] = names
		}

		records = append(records, rec)
	})

	return records, nil
}
