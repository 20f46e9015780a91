package table_test

import (
	"bytes"
	"fmt"

	"github.com/bsm/ordkey/table"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
)

var _ = Describe("Reader", func() {
	var subject *table.Reader

	const numSeeds = 100

	HavePos := func(n int) types.GomegaMatcher {
		return WithTransform(func(x interface{ Pos() int }) int {
			return x.Pos()
		}, Equal(n))
	}

	// Seeds 100 keys, -200..196 in steps of 4, across multiple blocks.
	BeforeEach(func() {
		var err error
		subject, err = seedReader(numSeeds, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should init", func() {
		Expect(subject.NumBlocks()).To(BeNumerically(">", 2))

		tr10k, err := seedReader(10000, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr10k.NumBlocks()).To(BeNumerically(">", 100*subject.NumBlocks()/2))
	})

	It("should reject bad input", func() {
		_, err := table.NewReader(bytes.NewReader([]byte("short")), 5)
		Expect(err).To(MatchError(`table: bad magic byte sequence`))

		junk := bytes.Repeat([]byte{'x'}, 32)
		_, err = table.NewReader(bytes.NewReader(junk), int64(len(junk)))
		Expect(err).To(MatchError(`table: bad magic byte sequence`))
	})

	It("should Get/Append", func() {
		for i := 0; i < numSeeds; i++ {
			num := seedNum(i, numSeeds)
			sfx := fmt.Sprintf("%08d", num+1e7)
			Expect(subject.Get(seedKey(num))).To(HaveSuffix(sfx), "for %d", num)
		}

		_, err := subject.Get(seedKey(1))
		Expect(err).To(MatchError(table.ErrNotFound))
		_, err = subject.Get(seedKey(-201))
		Expect(err).To(MatchError(table.ErrNotFound))
		_, err = subject.Get(seedKey(200))
		Expect(err).To(MatchError(table.ErrNotFound))
		_, err = subject.Get(nil)
		Expect(err).To(MatchError(table.ErrNotFound))

		dst := []byte("prefix:")
		dst, err = subject.Append(dst, seedKey(0))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(dst)).To(HavePrefix("prefix:"))
		Expect(string(dst)).To(HaveSuffix("10000000"))
	})

	It("should retrieve blocks", func() {
		b0, err := subject.GetBlock(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(b0.Pos()).To(Equal(0))
		Expect(b0.NumSections()).To(BeNumerically(">=", 1))

		b1, err := subject.GetBlock(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(b1.Pos()).To(Equal(1))

		b0, err = subject.GetBlock(-1)
		Expect(err).NotTo(HaveOccurred())
		Expect(b0.Pos()).To(Equal(0))

		bx, err := subject.GetBlock(1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(bx.Pos()).To(Equal(subject.NumBlocks()))
	})

	It("should seek blocks", func() {
		last := subject.NumBlocks()
		Expect(subject.SeekBlock(nil)).To(HavePos(0))
		Expect(subject.SeekBlock(seedKey(-1000))).To(HavePos(0))
		Expect(subject.SeekBlock(seedKey(-200))).To(HavePos(0))
		Expect(subject.SeekBlock(seedKey(196))).To(HavePos(last - 1))
		Expect(subject.SeekBlock(seedKey(197))).To(HavePos(last))
		Expect(subject.SeekBlock(seedKey(1000))).To(HavePos(last))
	})

	It("should find every key in the block it seeks", func() {
		for i := 0; i < numSeeds; i++ {
			key := seedKey(seedNum(i, numSeeds))

			block, err := subject.SeekBlock(key)
			Expect(err).NotTo(HaveOccurred())

			section := block.SeekSection(key)
			Expect(section.Seek(key)).To(BeTrue(), "for %x", key)
			Expect(section.Next()).To(BeTrue())
			Expect(section.Key()).To(Equal(key))
			block.Release()
		}
	})

	Describe("BlockReader", func() {
		var block *table.BlockReader

		BeforeEach(func() {
			var err error
			block, err = subject.GetBlock(0)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			block.Release()
		})

		It("should have pos", func() {
			Expect(block.Pos()).To(Equal(0))
		})

		It("should have sections", func() {
			n := block.NumSections()
			Expect(n).To(BeNumerically(">=", 2))
			Expect(block.GetSection(0).Pos()).To(Equal(0))
			Expect(block.GetSection(1).Pos()).To(Equal(1))
			Expect(block.GetSection(n).Pos()).To(Equal(n))
			Expect(block.GetSection(n + 1).Pos()).To(Equal(n))
			Expect(block.GetSection(-1).Pos()).To(Equal(0))
		})

		It("should seek sections", func() {
			n := block.NumSections()
			Expect(block.SeekSection(nil).Pos()).To(Equal(0))
			Expect(block.SeekSection(seedKey(-200)).Pos()).To(Equal(0))
			Expect(block.SeekSection(seedKey(1000)).Pos()).To(Equal(n))

			// the 17th entry (restart interval 16) opens the second section
			Expect(block.SeekSection(seedKey(seedNum(15, numSeeds))).Pos()).To(Equal(0))
			Expect(block.SeekSection(seedKey(seedNum(16, numSeeds))).Pos()).To(Equal(1))
		})
	})

	Describe("SectionReader", func() {
		var section *table.SectionReader

		// S1: the first block from entry 16
		BeforeEach(func() {
			block, err := subject.GetBlock(0)
			Expect(err).NotTo(HaveOccurred())

			section = block.GetSection(1)
		})

		It("should have pos", func() {
			Expect(section.Pos()).To(Equal(1))
		})

		It("should seek", func() {
			Expect(section.Seek(seedKey(seedNum(18, numSeeds)))).To(BeTrue())
			Expect(section.Next()).To(BeTrue())
			Expect(section.Key()).To(Equal(seedKey(seedNum(18, numSeeds))))

			Expect(section.Seek(seedKey(seedNum(20, numSeeds) + 1))).To(BeTrue())
			Expect(section.Next()).To(BeTrue())
			Expect(section.Key()).To(Equal(seedKey(seedNum(21, numSeeds))))
		})

		It("should iterate", func() {
			Expect(section.More()).To(BeTrue())
			Expect(section.Next()).To(BeTrue())
			Expect(section.Key()).To(Equal(seedKey(seedNum(16, numSeeds))))
			Expect(section.Value()).To(HaveSuffix(fmt.Sprintf("%08d", seedNum(16, numSeeds)+1e7)))

			Expect(section.More()).To(BeTrue())
			Expect(section.Next()).To(BeTrue())
			Expect(section.Key()).To(Equal(seedKey(seedNum(17, numSeeds))))
			Expect(section.Err()).NotTo(HaveOccurred())
		})
	})

	Describe("Iterator", func() {
		It("should iterate from beginning", func() {
			iter, err := subject.Seek(nil)
			Expect(err).NotTo(HaveOccurred())
			defer iter.Release()

			Expect(iter.More()).To(BeTrue())
			Expect(iter.Next()).To(BeTrue())
			Expect(iter.Key()).To(Equal(seedKey(-200)))
			Expect(iter.Value()).To(HaveSuffix("09999800"))

			Expect(iter.More()).To(BeTrue())
			Expect(iter.Next()).To(BeTrue())
			Expect(iter.Key()).To(Equal(seedKey(-196)))
			Expect(iter.Value()).To(HaveSuffix("09999804"))

			for i := 0; i < 97; i++ {
				Expect(iter.More()).To(BeTrue())
				Expect(iter.Next()).To(BeTrue())
			}

			Expect(iter.More()).To(BeTrue())
			Expect(iter.Next()).To(BeTrue())
			Expect(iter.Key()).To(Equal(seedKey(196)))
			Expect(iter.Value()).To(HaveSuffix("10000196"))

			Expect(iter.More()).To(BeFalse())
			Expect(iter.Next()).To(BeFalse())
			Expect(iter.Err()).NotTo(HaveOccurred())
		})

		It("should iterate in ascending byte order", func() {
			iter, err := subject.Seek(nil)
			Expect(err).NotTo(HaveOccurred())
			defer iter.Release()

			var prev []byte
			n := 0
			for iter.Next() {
				Expect(bytes.Compare(prev, iter.Key())).To(Equal(-1))
				prev = append(prev[:0], iter.Key()...)
				n++
			}
			Expect(iter.Err()).NotTo(HaveOccurred())
			Expect(n).To(Equal(numSeeds))
		})

		It("should iterate from middle", func() {
			iter, err := subject.Seek(seedKey(-1))
			Expect(err).NotTo(HaveOccurred())
			defer iter.Release()

			Expect(iter.Next()).To(BeTrue())
			Expect(iter.Key()).To(Equal(seedKey(0)))
		})

		It("should iterate from last entry", func() {
			iter, err := subject.Seek(seedKey(196))
			Expect(err).NotTo(HaveOccurred())
			defer iter.Release()

			Expect(iter.More()).To(BeTrue())
			Expect(iter.Next()).To(BeTrue())
			Expect(iter.Key()).To(Equal(seedKey(196)))
			Expect(iter.Value()).To(HaveSuffix("10000196"))

			Expect(iter.More()).To(BeFalse())
			Expect(iter.Next()).To(BeFalse())
			Expect(iter.Err()).NotTo(HaveOccurred())
		})

		It("should not iterate when past the end", func() {
			iter, err := subject.Seek(seedKey(1000))
			Expect(err).NotTo(HaveOccurred())
			defer iter.Release()

			Expect(iter.More()).To(BeFalse())
			Expect(iter.Next()).To(BeFalse())
			Expect(iter.Err()).NotTo(HaveOccurred())
		})

		It("should iterate compressed tables", func() {
			compressed, err := seedReader(numSeeds, &table.WriterOptions{
				BlockSize:            512,
				BlockRestartInterval: 4,
				Compression:          table.SnappyCompression,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(compressed.NumBlocks()).To(BeNumerically(">", subject.NumBlocks()))

			iter, err := compressed.Seek(seedKey(100))
			Expect(err).NotTo(HaveOccurred())
			defer iter.Release()

			n := 0
			for iter.Next() {
				Expect(iter.Key()).To(Equal(seedKey(100 + int64(n)*4)))
				n++
			}
			Expect(iter.Err()).NotTo(HaveOccurred())
			Expect(n).To(Equal(25))
		})
	})
})
