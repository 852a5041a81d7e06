package bga

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseStats extracts every per-game results block from a profile document.
// Blocks parse in isolation: one bad block becomes one ParseError and the
// rest still come through. Win percentage is the one required detail field;
// a block without it is dropped with an error naming the field.
func ParseStats(r io.Reader, document, fallbackName string, pm ProfileMapping, sm StatsMapping) (PlayerStats, []error) {
	out := PlayerStats{PlayerName: fallbackName}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return out, []error{NewParseError(document, "", "", "unreadable profile document: %v", err)}
	}

	if name := strings.TrimSpace(doc.Find(pm.UsernameSelector).First().Text()); name != "" {
		out.PlayerName = name
	}
	out.Overall = parseOverallStats(doc, pm)

	var errs []error
	doc.Find(sm.BlockSelector).Each(func(i int, block *goquery.Selection) {
		rec, err := parseStatsBlock(block, document, i, sm)
		if err != nil {
			errs = append(errs, err)
			return
		}
		out.Games = append(out.Games, rec)
	})
	out.TotalGamesWithStats = len(out.Games)
	return out, errs
}

func parseStatsBlock(block *goquery.Selection, document string, index int, m StatsMapping) (RawStatsRecord, error) {
	rec := RawStatsRecord{Extra: map[string]string{}}
	blockRef := fmt.Sprintf("block %d", index)

	link := block.Find(m.GameNameSelector).First()
	rec.GameName = strings.TrimSpace(link.Text())
	if rec.GameName == "" {
		return rec, NewParseError(document, blockRef, "game_name", "no %s element", m.GameNameSelector)
	}
	blockRef = rec.GameName

	if href := link.AttrOr("href", ""); href != "" {
		if match := m.GameRefRe.FindStringSubmatch(href); match != nil {
			rec.GameRef = match[1]
		}
	}
	if src := block.Find(m.GameIconSelector).First().AttrOr("src", ""); src != "" {
		rec.Extra["icon_url"] = src
		if match := m.GameSlugRe.FindStringSubmatch(src); match != nil {
			rec.Extra["game_slug"] = match[1]
		}
	}

	if rank := block.Find(m.RankSelector).First(); rank.Length() > 0 {
		rec.RankClass = rankClass(rank)
		value := strings.TrimSpace(rank.Find(m.RankValueSelector).First().Text())
		if value != "" {
			if allDigits(collapseDigits(value)) {
				n, _ := strconv.Atoi(collapseDigits(value))
				rec.ArenaRating = &n
			} else {
				rec.Extra["rank_text"] = value
			}
		}
	}

	details := block.Find(m.DetailsSelector).First().Text()
	if match := m.GamesRe.FindStringSubmatch(details); match != nil {
		rec.GamesPlayed, _ = strconv.Atoi(collapseDigits(match[1]))
		if match[2] != "" {
			rec.TrainingGames, _ = strconv.Atoi(match[2])
		}
	}
	if match := m.VictoriesRe.FindStringSubmatch(details); match != nil {
		rec.Victories, _ = strconv.Atoi(collapseDigits(match[1]))
	}
	if match := m.WinPctRe.FindStringSubmatch(details); match != nil {
		pct, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return rec, NewParseError(document, blockRef, "win_percentage", "bad value %q", match[1])
		}
		rec.WinPercentage = &pct
	} else {
		return rec, NewParseError(document, blockRef, "win_percentage", "no match in details text")
	}

	// Numeric platform id only appears on the statistics link.
	block.Find(m.StatLinkSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if match := m.GameIDRe.FindStringSubmatch(s.AttrOr("href", "")); match != nil {
			rec.ExternalGameID = match[1]
			return false
		}
		return true
	})

	if len(rec.Extra) == 0 {
		rec.Extra = nil
	}
	return rec, nil
}

// rankClass picks the ladder class out of the element's CSS classes.
func rankClass(rank *goquery.Selection) string {
	classes := rank.AttrOr("class", "")
	for _, name := range RankClasses {
		if strings.Contains(classes, "gamerank_"+name) {
			return name
		}
	}
	return ""
}

func parseOverallStats(doc *goquery.Document, m ProfileMapping) OverallStats {
	var out OverallStats

	if text := doc.Find(m.XPSelector).First().Text(); text != "" {
		if match := m.XPRe.FindStringSubmatch(text); match != nil {
			out.TotalXP, _ = strconv.Atoi(match[1])
		}
	}
	if text := doc.Find(m.ResultsSelector).First().Text(); text != "" {
		if match := m.GamesPlayedRe.FindStringSubmatch(text); match != nil {
			out.TotalGamesPlayed, _ = strconv.Atoi(collapseDigits(match[1]))
		}
	}
	if text := doc.Find(m.FriendsSelector).First().Text(); text != "" {
		if match := m.FriendsRe.FindStringSubmatch(text); match != nil {
			out.TotalFriends, _ = strconv.Atoi(match[1])
		}
	}
	return out
}

// collapseDigits strips the space thousands separators the source writes
// into large numbers ("1 238" -> "1238").
func collapseDigits(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, " ", "")
}
