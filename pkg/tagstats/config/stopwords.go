package config

// defaultStopwords is the built-in list dropped from title-word
// aggregation. Question titles are dominated by interrogatives and
// glue words, so the list leans that way rather than toward prose.
var defaultStopwords = []string{
	"a", "an", "the", "and", "or", "but", "of", "in", "on", "at",
	"to", "for", "from", "with", "without", "into", "onto", "over",
	"under", "between", "through", "during", "after", "before",
	"is", "are", "was", "were", "be", "been", "being",
	"do", "does", "did", "doing", "done",
	"have", "has", "had", "having",
	"can", "cannot", "cant", "could", "should", "would", "will",
	"may", "might", "must", "shall",
	"how", "what", "when", "where", "which", "who", "whom", "whose", "why",
	"i", "you", "he", "she", "it", "we", "they",
	"my", "your", "his", "her", "its", "our", "their",
	"me", "him", "them", "this", "that", "these", "those",
	"not", "no", "nor", "so", "if", "then", "than", "as", "because",
	"there", "here", "all", "any", "each", "some", "such", "only",
	"same", "other", "more", "most", "very",
	"get", "getting", "got", "use", "using", "used", "make", "making",
	"way", "best", "possible", "vs",
}
