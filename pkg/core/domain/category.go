package domain

// AllCategoryID is the sentinel meaning "no filter". It is not a real category.
const AllCategoryID = "all"

// Category is a static grouping of links
type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count"`
}

// DefaultCategories is the built-in category list, sentinel first.
func DefaultCategories() []Category {
	return []Category{
		{ID: AllCategoryID, Title: "All", Icon: "🌐", Description: "Every resource in the directory"},
		{ID: "software", Title: "Software", Icon: "💻", Description: "Official software resources for Cinema 4D, Blender and companion tools"},
		{ID: "tutorials", Title: "Tutorials", Icon: "🎓", Description: "Learning resources, courses and training materials for 3D design"},
		{ID: "plugins", Title: "Plugins", Icon: "🧩", Description: "Extensions, add-ons and plugins to enhance your 3D workflow"},
		{ID: "assets", Title: "Assets", Icon: "🏆", Description: "3D models, textures, materials and ready-to-use assets"},
		{ID: "communities", Title: "Communities", Icon: "👥", Description: "Forums, discussion groups and communities for 3D designers"},
		{ID: "inspiration", Title: "Inspiration", Icon: "✨", Description: "Galleries, showcases and portfolios to inspire your work"},
		{ID: "pbr-materials", Title: "PBR Materials", Icon: "🎨", Description: "Physically-based rendering materials and textures"},
		{ID: "hdri", Title: "HDRIs", Icon: "🌄", Description: "High Dynamic Range Images for lighting your 3D scenes"},
		{ID: "tools", Title: "Tools", Icon: "🔧", Description: "Specialized tools and utilities for 3D designers"},
	}
}

// RealCategories drops the sentinel.
func RealCategories(categories []Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.ID != AllCategoryID {
			out = append(out, c)
		}
	}
	return out
}

// FindCategory looks up a real category by id.
func FindCategory(categories []Category, id string) (Category, bool) {
	if id == AllCategoryID {
		return Category{}, false
	}
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CountByCategory fills Count on each real category.
func CountByCategory(categories []Category, links []Link) []Category {
	counts := make(map[string]int, len(categories))
	for _, l := range links {
		counts[l.Category]++
	}
	out := RealCategories(categories)
	for i := range out {
		out[i].Count = counts[out[i].ID]
	}
	return out
}

// DirectoryStats are the admin dashboard counters
type DirectoryStats struct {
	TotalLinks    int `json:"total_links"`
	FeaturedLinks int `json:"featured_links"`
	Categories    int `json:"categories"`
}
