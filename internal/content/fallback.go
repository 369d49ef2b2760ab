package content

import "wildsl/internal/model"

const (
	teamImageNiro  = "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?auto=format&fit=crop&w=400&q=80"
	teamImageClara = "https://images.unsplash.com/photo-1494790108755-2616b612b786?auto=format&fit=crop&w=400&q=80"
	teamImageMax   = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?auto=format&fit=crop&w=400&q=80"
	winnersCDN     = "https://dm7ldj21i44fm.cloudfront.net/img/winners/2024/"
)

// FallbackEvents is the substitute for events.json: no events.
func FallbackEvents() model.EventsDocument {
	return model.EventsDocument{Events: []model.Entry{}}
}

// FallbackProjects is the substitute for projects.json: no projects.
func FallbackProjects() model.EventsDocument {
	return model.EventsDocument{Events: []model.Entry{}}
}

// FallbackNews is the substitute for news.json.
func FallbackNews() []model.NewsItem {
	return []model.NewsItem{
		{
			ID:          "1",
			NewsID:      "leopard-population-discovery",
			Image:       "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?auto=format&fit=crop&w=600&q=80",
			Title:       "New Leopard Population Discovered in Yala National Park",
			Description: "Conservationists have identified a previously unknown population of Sri Lankan leopards in the remote regions of Yala National Park.",
			Date:        "2024-12-15",
			Author:      "Wild Sri Lanka Team",
			Category:    "Conservation",
			Tags:        []string{"leopard", "yala", "conservation", "wildlife"},
		},
		{
			ID:          "2",
			NewsID:      "wildlife-photography-workshop-2025",
			Image:       "https://images.unsplash.com/photo-1518717758536-85ae29035b6d?auto=format&fit=crop&w=600&q=80",
			Title:       "Wildlife Photography Workshop Announced for March 2025",
			Description: "Join our expert photographers for an immersive 5-day workshop in the heart of Sri Lanka's wilderness.",
			Date:        "2024-12-12",
			Author:      "Wild Sri Lanka Team",
			Category:    "Workshop",
			Tags:        []string{"photography", "workshop", "wildlife", "training"},
		},
		{
			ID:          "3",
			NewsID:      "elephant-corridor-restoration",
			Image:       "https://images.unsplash.com/photo-1506744038136-46273834b3fb?auto=format&fit=crop&w=600&q=80",
			Title:       "Conservation Success: Elephant Corridor Restoration Complete",
			Description: "The restoration of the ancient elephant migration corridor between Minneriya and Kaudulla National Parks has been completed.",
			Date:        "2024-12-10",
			Author:      "Wild Sri Lanka Team",
			Category:    "Conservation",
			Tags:        []string{"elephant", "corridor", "conservation", "migration"},
		},
	}
}

// FallbackWinners is the substitute for winners.json: the 2024 results.
func FallbackWinners() model.WinnersDocument {
	return model.WinnersDocument{
		"2024": {
			"Open": {
				{Name: "Chitral Rajiv Jayatilake", Category: "Winner - Lunging for Life", Image: winnersCDN + "open/open-2024-1.png", CompetitionCategory: "Open"},
				{Name: "Sujeewa Nishantha Mallawaarachchi", Category: "1st runners-Up - Feeding Time", Image: winnersCDN + "open/open-2024-2.png", CompetitionCategory: "Open"},
				{Name: "Samith Chandula Perera", Category: "2nd runners-Up - Under the Wings of Danger", Image: winnersCDN + "open/open-2024-3.png", CompetitionCategory: "Open"},
			},
			"Junior": {
				{Name: "Danuja Santhusa Palihawadana Arachchi", Category: "Winner - Had Enough", Image: winnersCDN + "junior/junior-2024-1.png", CompetitionCategory: "Junior"},
				{Name: "Sesadi Wickramasinghe", Category: "1st runners-Up - A Deadly Delicacy", Image: winnersCDN + "junior/junior-2024-2.png", CompetitionCategory: "Junior"},
				{Name: "Sesadi Wickramasinghe", Category: "2nd runners-Up - Avian Elegance", Image: winnersCDN + "junior/junior-2024-3.png", CompetitionCategory: "Junior"},
			},
		},
	}
}

// FallbackTeam is the substitute for team.json.
func FallbackTeam() model.TeamDocument {
	return model.TeamDocument{
		BoardOfficials: []model.TeamMember{
			{ID: "niro-genzarry-president", Name: "Niro Genzarry", Position: "President", Email: "nina.genzarry@team.collection", Image: teamImageNiro},
			{ID: "clara-huel-vice-president", Name: "Clara Huel", Position: "Vice President", Email: "clara.huel@team.collection", Image: teamImageClara},
			{ID: "max-collins-secretary", Name: "Max Collins", Position: "Secretary", Email: "m.collins@team.collection", Image: teamImageMax},
		},
		ModerationTeam: []model.TeamMember{
			{ID: "niro-genzarry-moderator-1", Name: "Niro Genzarry", Email: "nina.genzarry@team.collection", Image: teamImageNiro},
			{ID: "clara-huel-moderator-1", Name: "Clara Huel", Email: "clara.huel@team.collection", Image: teamImageClara},
			{ID: "max-collins-moderator-1", Name: "Max Collins", Email: "m.collins@team.collection", Image: teamImageMax},
		},
	}
}
