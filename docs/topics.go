// Package docs embeds the gf documentation topics.
//
// readme.md is the index: it lists one topic per "* name: summary" line, in
// reading order.
package docs

import (
	"bufio"
	"embed"
	"fmt"
	"regexp"
	"strings"
)

//go:embed *.md
var docs embed.FS

// All designates every topic of the index.
const All = "*"

// index is the file listing the topics.
const index = "readme.md"

var indexEntry = regexp.MustCompile(`^\*\s+([^:]+):`)

// GetTopic returns the content of a documentation topic, or of every topic for [All].
func GetTopic(topic string) (string, error) {
	if topic == All {
		return GetTopics(All)
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics returns the content of topics, one after the other. [All] expands to every topic.
func GetTopics(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		names := []string{topic}
		if topic == All {
			var err error
			if names, err = GetAllTopics(); err != nil {
				return "", err
			}
		}
		for _, name := range names {
			content, err := GetTopic(name)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// GetAllTopics returns the topics in the order of the index.
func GetAllTopics() ([]string, error) {
	f, err := docs.Open(index)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var topics []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := indexEntry.FindStringSubmatch(scanner.Text()); m != nil {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	return topics, scanner.Err()
}
