package models

// RecentSearch is one entry of the recentSearches slot: the summary of a
// user the viewer opened from search results.
type RecentSearch = UserSummary
