// Package unionfind implements a disjoint-set forest with path compression
// and union by size, used to accumulate duplicate groups during analysis.
package unionfind
