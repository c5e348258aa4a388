// internal/bgg/xml.go
package bgg

import "strconv"

// Wire shapes for the XMLAPI2 documents. Every scalar arrives as a
// value="" attribute on a child element.

type intValue struct {
	Value int `xml:"value,attr"`
}

type floatValue struct {
	Value float64 `xml:"value,attr"`
}

type searchDocument struct {
	Items []searchItem `xml:"item"`
}

type searchItem struct {
	ID   int `xml:"id,attr"`
	Name struct {
		Value string `xml:"value,attr"`
	} `xml:"name"`
	YearPublished *intValue `xml:"yearpublished"`
}

type thingDocument struct {
	Items []thingItem `xml:"item"`
}

type thingItem struct {
	ID    int `xml:"id,attr"`
	Names []struct {
		Type  string `xml:"type,attr"`
		Value string `xml:"value,attr"`
	} `xml:"name"`
	YearPublished *intValue `xml:"yearpublished"`
	MinPlayers    *intValue `xml:"minplayers"`
	MaxPlayers    *intValue `xml:"maxplayers"`
	PlayingTime   *intValue `xml:"playingtime"`
	MinPlaytime   *intValue `xml:"minplaytime"`
	MaxPlaytime   *intValue `xml:"maxplaytime"`
	MinAge        *intValue `xml:"minage"`
	Image         string    `xml:"image"`
	Thumbnail     string    `xml:"thumbnail"`
	Description   string    `xml:"description"`
	Links         []struct {
		Type  string `xml:"type,attr"`
		Value string `xml:"value,attr"`
	} `xml:"link"`
	Statistics *struct {
		Ratings struct {
			UsersRated    *intValue   `xml:"usersrated"`
			Average       *floatValue `xml:"average"`
			BayesAverage  *floatValue `xml:"bayesaverage"`
			NumComments   *intValue   `xml:"numcomments"`
			Owned         *intValue   `xml:"owned"`
			AverageWeight *floatValue `xml:"averageweight"`
			Ranks         struct {
				Rank []struct {
					Name  string `xml:"name,attr"`
					Value string `xml:"value,attr"` // "Not Ranked" for unranked games
				} `xml:"rank"`
			} `xml:"ranks"`
		} `xml:"ratings"`
	} `xml:"statistics"`
}

func (it *thingItem) toDetail() GameDetail {
	d := GameDetail{
		BggID:         it.ID,
		YearPublished: intPtr(it.YearPublished),
		MinPlayers:    intPtr(it.MinPlayers),
		MaxPlayers:    intPtr(it.MaxPlayers),
		PlayingTime:   intPtr(it.PlayingTime),
		MinPlaytime:   intPtr(it.MinPlaytime),
		MaxPlaytime:   intPtr(it.MaxPlaytime),
		MinAge:        intPtr(it.MinAge),
		Image:         it.Image,
		Thumbnail:     it.Thumbnail,
		Description:   it.Description,
	}

	// The primary name; fall back to the first alternate.
	for _, n := range it.Names {
		if n.Type == "primary" {
			d.Name = n.Value
			break
		}
	}
	if d.Name == "" && len(it.Names) > 0 {
		d.Name = it.Names[0].Value
	}

	for _, l := range it.Links {
		switch l.Type {
		case "boardgamecategory":
			d.Categories = append(d.Categories, l.Value)
		case "boardgamemechanic":
			d.Mechanics = append(d.Mechanics, l.Value)
		case "boardgamedesigner":
			d.Designers = append(d.Designers, l.Value)
		case "boardgamepublisher":
			d.Publishers = append(d.Publishers, l.Value)
		}
	}

	if st := it.Statistics; st != nil {
		d.UsersRated = intPtr(st.Ratings.UsersRated)
		d.Average = floatPtr(st.Ratings.Average)
		d.BayesAverage = floatPtr(st.Ratings.BayesAverage)
		d.NumComments = intPtr(st.Ratings.NumComments)
		d.Owned = intPtr(st.Ratings.Owned)
		d.AverageWeight = floatPtr(st.Ratings.AverageWeight)
		for _, r := range st.Ratings.Ranks.Rank {
			if r.Name != "boardgame" {
				continue
			}
			if v, err := strconv.Atoi(r.Value); err == nil {
				d.Rank = &v
			}
			break
		}
	}
	return d
}

func intPtr(v *intValue) *int {
	if v == nil {
		return nil
	}
	val := v.Value
	return &val
}

func floatPtr(v *floatValue) *float64 {
	if v == nil {
		return nil
	}
	val := v.Value
	return &val
}
