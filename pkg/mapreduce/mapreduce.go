// Package mapreduce holds word frequency maps and the reduce step that
// folds many partial maps into one.
package mapreduce

// FrequencyMap maps an exact, case-sensitive word to its occurrence count.
type FrequencyMap map[string]uint64

// Add records one occurrence of word.
func (m FrequencyMap) Add(word string) {
	m[word]++
}

// Total returns the number of word occurrences in the map.
func (m FrequencyMap) Total() uint64 {
	var total uint64
	for _, c := range m {
		total += c
	}
	return total
}

// Reduce aggregates a slice of word frequency maps into a single map.
// Summation is commutative, so the order of intermediate maps does not matter.
func Reduce(intermediate []FrequencyMap) FrequencyMap {
	finalResults := make(FrequencyMap)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
